package redisrepo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gradglow/internal/common"
)

const sessionKeyPrefix = "session:"

// SessionRepository keeps opaque session tokens in redis with a TTL. The
// value is the owning user's id.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Store(ctx context.Context, token string, userID common.UUID) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+token, userID.String(), r.ttl).Err(); err != nil {
		return common.NewError(common.CodeUnavailable, "failed to store session", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (common.UUID, error) {
	value, err := r.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.NewError(common.CodeNotFound, "session not found", err)
		}
		return "", common.NewError(common.CodeUnavailable, "failed to load session", err)
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "corrupt session value", err)
	}
	return id, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return common.NewError(common.CodeUnavailable, "failed to revoke session", err)
	}
	return nil
}
