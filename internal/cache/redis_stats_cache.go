package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	dto "childcare-tasks.com/childcare-tasks/internal/data_models"
)

// setIfCurrent writes the entry only when the scope generation still matches.
var setIfCurrent = rueidis.NewLuaScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisStatsCache keeps one JSON entry and one generation counter per scope.
// Both keys of a scope share a hash tag so they live in the same slot.
type RedisStatsCache struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStatsCache(client rueidis.Client, keyPrefix string, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (r *RedisStatsCache) key(scope string) string {
	return r.prefix + "stats:{" + scope + "}"
}

func (r *RedisStatsCache) generationKey(scope string) string {
	return r.key(scope) + ":gen"
}

func (r *RedisStatsCache) Get(ctx context.Context, scope string) (*dto.TaskStats, int64, bool, error) {
	results := r.client.DoMulti(ctx,
		r.client.B().Get().Key(r.key(scope)).Build(),
		r.client.B().Get().Key(r.generationKey(scope)).Build(),
	)

	generation, err := results[1].AsInt64()
	if err != nil && !rueidis.IsRedisNil(err) {
		return nil, 0, false, err
	}

	raw, err := results[0].ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, generation, false, nil
		}
		return nil, generation, false, err
	}

	var stats dto.TaskStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, generation, false, err
	}
	return &stats, generation, true, nil
}

func (r *RedisStatsCache) Set(ctx context.Context, scope string, generation int64, stats *dto.TaskStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	keys := []string{r.key(scope), r.generationKey(scope)}
	args := []string{
		strconv.FormatInt(generation, 10),
		string(data),
		strconv.FormatInt(r.ttl.Milliseconds(), 10),
	}
	return setIfCurrent.Exec(ctx, r.client, keys, args).Error()
}

// Invalidate bumps each scope's generation and drops its entry. Commands are
// sent per key because scopes hash to different slots.
func (r *RedisStatsCache) Invalidate(ctx context.Context, scopes ...string) error {
	if len(scopes) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, 2*len(scopes))
	for _, scope := range scopes {
		cmds = append(cmds,
			r.client.B().Incr().Key(r.generationKey(scope)).Build(),
			r.client.B().Del().Key(r.key(scope)).Build(),
		)
	}

	var errs []error
	for _, res := range r.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
