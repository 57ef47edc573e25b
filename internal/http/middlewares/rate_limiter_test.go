package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	s := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{s.Addr()},
		DisableCache: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(client.Close)

	return s, client
}

func hit(mw echo.MiddlewareFunc, ip string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	c := e.NewContext(req, httptest.NewRecorder())

	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestRateLimiter_MemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	mw := RateLimiter(store, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if err := hit(mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d should pass: %v", i, err)
		}
	}
	if err := hit(mw, "10.0.0.1"); !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if err := hit(mw, "10.0.0.2"); err != nil {
		t.Errorf("other clients have their own budget: %v", err)
	}

	now = now.Add(time.Minute + time.Second)
	if err := hit(mw, "10.0.0.1"); err != nil {
		t.Errorf("window should have reset: %v", err)
	}
}

func TestRateLimiter_RedisStore(t *testing.T) {
	s, client := setupTestRedis(t)
	mw := RateLimiter(NewRedisStore(client, "test:"), 2, time.Minute)

	for i := 0; i < 2; i++ {
		if err := hit(mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d should pass: %v", i, err)
		}
	}
	if err := hit(mw, "10.0.0.1"); !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	if ttl := s.TTL("test:ratelimit:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected counter ttl within the window, got %v", ttl)
	}

	s.FastForward(time.Minute + time.Second)
	if err := hit(mw, "10.0.0.1"); err != nil {
		t.Errorf("window should have reset: %v", err)
	}
}

func TestRedisStore_RepairsCounterWithoutExpiry(t *testing.T) {
	s, client := setupTestRedis(t)
	store := NewRedisStore(client, "test:")
	ctx := context.Background()

	if err := s.Set("test:ratelimit:10.0.0.1", "5"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	count, err := store.Hit(ctx, "10.0.0.1", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 6 {
		t.Errorf("expected count 6, got %d", count)
	}
	if ttl := s.TTL("test:ratelimit:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected counter to regain a ttl, got %v", ttl)
	}

	s.FastForward(time.Minute + time.Second)
	count, err = store.Hit(ctx, "10.0.0.1", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a fresh window, got count %d", count)
	}
}

func TestRedisStore_KeepsExistingExpiry(t *testing.T) {
	s, client := setupTestRedis(t)
	store := NewRedisStore(client, "test:")
	ctx := context.Background()

	if _, err := store.Hit(ctx, "10.0.0.1", time.Minute); err != nil {
		t.Fatalf("hit: %v", err)
	}
	s.FastForward(40 * time.Second)
	if _, err := store.Hit(ctx, "10.0.0.1", time.Minute); err != nil {
		t.Fatalf("hit: %v", err)
	}

	if ttl := s.TTL("test:ratelimit:10.0.0.1"); ttl > 20*time.Second {
		t.Errorf("later hits must not extend the window, got ttl %v", ttl)
	}
}

func TestRateLimiter_StoreFailureLetsRequestsThrough(t *testing.T) {
	s, client := setupTestRedis(t)
	mw := RateLimiter(NewRedisStore(client, "test:"), 1, time.Minute)
	s.Close()

	for i := 0; i < 3; i++ {
		if err := hit(mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d should pass when redis is down: %v", i, err)
		}
	}
}

func TestRateLimitStore_Counts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Hit(ctx, "k", time.Minute)
		if err != nil || got != want {
			t.Fatalf("expected count %d, got %d (%v)", want, got, err)
		}
	}
}
