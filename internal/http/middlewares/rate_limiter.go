package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	"childcare-tasks.com/childcare-tasks/internal/logger"
	"childcare-tasks.com/childcare-tasks/internal/metrics"
)

// RateLimitStore counts hits per key inside a fixed window that starts at
// the first hit.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count int64
	start time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket), now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || now.Sub(b.start) > window {
		b = &bucket{start: now}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// hitScript increments the counter and gives it a TTL whenever it has none,
// so a counter never outlives its window even if an earlier expiry was lost.
var hitScript = rueidis.NewLuaScript(`
local count = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisStore shares counters between replicas.
type RedisStore struct {
	client rueidis.Client
	prefix string
}

func NewRedisStore(client rueidis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := s.prefix + "ratelimit:" + key

	count, err := hitScript.Exec(ctx, s.client, []string{k}, []string{strconv.FormatInt(window.Milliseconds(), 10)}).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("hit %s: %w", k, err)
	}
	return count, nil
}

// RateLimiter allows limit requests per client IP per window. Store failures
// let the request through.
func RateLimiter(store RateLimitStore, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}

			key := c.RealIP()
			count, err := store.Hit(c.Request().Context(), key, window)
			if err != nil {
				logger.Log.Warn().Err(err).Str("client", key).Msg("rate limiter store failed")
				return next(c)
			}

			if count > int64(limit) {
				metrics.RateLimited.Inc()
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}
