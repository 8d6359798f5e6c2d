package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares counters through Redis so several instances enforce one budget.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter wraps an existing client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Allow implements Limiter using INCR and a window-length expiry.
func (r *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	now := r.now()
	start, reset := window(now, rule)
	k := counterKey(rule, key, start)

	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis incr %s: %w", k, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, k, reset.Sub(now)+time.Second).Err(); err != nil {
			return Decision{}, fmt.Errorf("redis expire %s: %w", k, err)
		}
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		return Decision{Rule: rule.Name, Allowed: false, Limit: rule.Limit, Remaining: 0, ResetAt: reset}, nil
	}
	return Decision{Rule: rule.Name, Allowed: true, Limit: rule.Limit, Remaining: remaining, ResetAt: reset}, nil
}
