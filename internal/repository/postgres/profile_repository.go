package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/user"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, u user.User, passwordHash string) (*user.User, error) {
	if u.ID == "" {
		u.ID = common.NewUUID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (id, email, role, name, avatar_url, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.Role, nullable(u.Name), nullable(u.AvatarURL), passwordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "email already registered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create profile", err)
	}
	return &u, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, role, name, avatar_url, created_at FROM profiles WHERE id = $1`, id)
	u, _, err := scanProfile(row)
	return u, err
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx, `SELECT id, email, role, name, avatar_url, created_at, password_hash FROM profiles WHERE email = $1`, email)
	var (
		id, mail, role string
		name, avatar   sql.NullString
		createdAt      time.Time
		hash           string
	)
	if err := row.Scan(&id, &mail, &role, &name, &avatar, &createdAt, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", common.NewError(common.CodeNotFound, "profile not found", err)
		}
		return nil, "", common.NewError(common.CodeInternal, "failed to load profile", err)
	}
	return &user.User{
		ID:        common.UUID(id),
		Email:     mail,
		Role:      user.Role(role),
		Name:      name.String,
		AvatarURL: avatar.String,
		CreatedAt: createdAt,
	}, hash, nil
}

func scanProfile(row *sql.Row) (*user.User, string, error) {
	var (
		id, mail, role string
		name, avatar   sql.NullString
		createdAt      time.Time
	)
	if err := row.Scan(&id, &mail, &role, &name, &avatar, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", common.NewError(common.CodeNotFound, "profile not found", err)
		}
		return nil, "", common.NewError(common.CodeInternal, "failed to load profile", err)
	}
	return &user.User{
		ID:        common.UUID(id),
		Email:     mail,
		Role:      user.Role(role),
		Name:      name.String,
		AvatarURL: avatar.String,
		CreatedAt: createdAt,
	}, "", nil
}
