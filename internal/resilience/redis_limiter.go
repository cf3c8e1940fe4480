package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments one counter per key and starts the window
// expiry on first use. Returns {count, ttl_seconds} pairs.
const fixedWindowScript = `
local results = {}
local window = tonumber(ARGV[1])
for i = 1, #KEYS do
    local count = redis.call('INCR', KEYS[i])
    if count == 1 then
        redis.call('EXPIRE', KEYS[i], window)
    end
    local ttl = redis.call('TTL', KEYS[i])
    if ttl < 0 then
        redis.call('EXPIRE', KEYS[i], window)
        ttl = window
    end
    table.insert(results, count)
    table.insert(results, ttl)
end
return results
`

// RedisLimiter implements DistributedLimiter with a Lua fixed-window counter.
type RedisLimiter struct {
	client redis.UniversalClient
	script *redis.Script
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a limiter whose keys are prefixed with prefix.
func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "stellarforge:ratelimit"
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisLimiter) key(desc Descriptor) string {
	// Hash tag keeps every counter for one key on the same cluster slot.
	return fmt.Sprintf("%s:{%s}:%s", r.prefix, desc.Key, desc.Scope)
}

// CheckAllow implements DistributedLimiter. All descriptors in one call share
// the window of the first descriptor.
func (r *RedisLimiter) CheckAllow(ctx context.Context, descriptors []Descriptor) ([]LimitResult, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	window := descriptors[0].Window
	if window <= 0 {
		window = time.Minute
	}
	windowSeconds := int64(window / time.Second)
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	keys := make([]string, len(descriptors))
	for i, desc := range descriptors {
		keys[i] = r.key(desc)
	}

	vals, err := r.script.Run(ctx, r.client, keys, windowSeconds).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(vals) != len(descriptors)*2 {
		return nil, fmt.Errorf("unexpected result length: got %d, want %d", len(vals), len(descriptors)*2)
	}

	now := r.now().Unix()
	results := make([]LimitResult, len(descriptors))
	for i, desc := range descriptors {
		current, ttl := vals[i*2], vals[i*2+1]
		remaining := desc.Limit - current
		if remaining < 0 {
			remaining = 0
		}
		results[i] = LimitResult{
			Allowed:   current <= desc.Limit,
			Current:   current,
			Remaining: remaining,
			ResetAt:   now + ttl,
		}
	}
	return results, nil
}
