package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	dto "childcare-tasks.com/childcare-tasks/internal/data_models"
)

const allScope = "all"

// StatsCache stores task statistics per visibility scope.
//
// Get reports the scope's current generation alongside the entry. Set stores
// stats only while that generation is still current, so stats computed before
// an Invalidate never overwrite it.
type StatsCache interface {
	Get(ctx context.Context, scope string) (stats *dto.TaskStats, generation int64, ok bool, err error)

	Set(ctx context.Context, scope string, generation int64, stats *dto.TaskStats) error

	Invalidate(ctx context.Context, scopes ...string) error
}

// ScopeFor returns the cache scope of a stats query filtered to assignedToID;
// an empty id is the admin-wide scope.
func ScopeFor(assignedToID string) string {
	if assignedToID == "" {
		return allScope
	}
	return "user:" + assignedToID
}

// AffectedScopes lists every scope whose stats change when tasks assigned to
// the given users change.
func AffectedScopes(assigneeIDs ...string) []string {
	scopes := []string{allScope}
	seen := map[string]bool{}
	for _, id := range assigneeIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		scopes = append(scopes, ScopeFor(id))
	}
	return scopes
}

type noopStatsCache struct{}

// NewNoopStatsCache returns a cache that never hits.
func NewNoopStatsCache() StatsCache {
	return noopStatsCache{}
}

func (noopStatsCache) Get(context.Context, string) (*dto.TaskStats, int64, bool, error) {
	return nil, 0, false, nil
}

func (noopStatsCache) Set(context.Context, string, int64, *dto.TaskStats) error { return nil }

func (noopStatsCache) Invalidate(context.Context, ...string) error { return nil }

// New picks the Redis cache when a client and positive ttl are available.
func New(client rueidis.Client, keyPrefix string, ttl time.Duration) StatsCache {
	if client == nil || ttl <= 0 {
		return NewNoopStatsCache()
	}
	return NewRedisStatsCache(client, keyPrefix, ttl)
}
