package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript implements the counter atomically on the Redis side.
// KEYS[1] = counter key, KEYS[2] = block key.
// ARGV[1] = window ms, ARGV[2] = points, ARGV[3] = block ms.
// Returns {allowed, retry_after_ms}.
var consumeScript = redis.NewScript(`
    local blocked = redis.call('PTTL', KEYS[2])
    if blocked > 0 then
        return { 0, blocked }
    end

    local count = redis.call('INCR', KEYS[1])
    if count == 1 then
        redis.call('PEXPIRE', KEYS[1], ARGV[1])
    end

    if count > tonumber(ARGV[2]) then
        redis.call('SET', KEYS[2], 1, 'PX', ARGV[3])
        redis.call('DEL', KEYS[1])
        return { 0, tonumber(ARGV[3]) }
    end

    return { 1, 0 }
`)

// RedisLimiter enforces the same budget semantics as MemoryLimiter against
// a shared Redis instance, so multiple replicas see one budget.
type RedisLimiter struct {
	policy Policy
	prefix string
	rdb    *redis.Client
}

// NewRedisLimiter builds a Redis-backed limiter. The prefix namespaces the
// keys so several policies (login, signup) can share one Redis.
func NewRedisLimiter(policy Policy, prefix string, rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{policy: policy, prefix: prefix, rdb: rdb}
}

func (l *RedisLimiter) keys(key string) []string {
	base := l.prefix + ":" + key
	return []string{base, base + ":block"}
}

// Consume runs the Lua script; the check-and-increment is a single atomic
// operation on the Redis side.
func (l *RedisLimiter) Consume(ctx context.Context, key string) error {
	vals, err := consumeScript.Run(ctx, l.rdb, l.keys(key),
		l.policy.Window.Milliseconds(),
		l.policy.Points,
		l.policy.Block.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return err
	}
	if len(vals) == 2 && vals[0] == 0 {
		return &RateLimitedError{RetryAfter: time.Duration(vals[1]) * time.Millisecond}
	}
	return nil
}

// Reset clears the counter and any block for key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.keys(key)...).Err()
}
