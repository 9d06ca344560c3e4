package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window rate limit check. Implementations fail open:
// a broken backend must never lock users out.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps windows in process memory. The server always wires the
// redis limiter; this one serves tests and single-process embedders, and its
// window is not shared across instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowEntry
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*windowEntry)}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := l.windows[key]
	if entry == nil || now.After(entry.resetAt) {
		l.windows[key] = &windowEntry{count: 1, resetAt: now.Add(window)}
		return true
	}
	entry.count++
	return entry.count <= limit
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares the window across instances via INCR/PEXPIRE.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
