package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter keeps counters in process memory. Counters are not shared between instances.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters *cache.Cache
	now      func() time.Time
}

// NewMemoryLimiter builds an in-process limiter; expired windows are purged every minute.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: cache.New(time.Minute, time.Minute),
		now:      time.Now,
	}
}

// Allow implements Limiter. A throttled call does not advance the counter.
func (m *MemoryLimiter) Allow(_ context.Context, key string, rule Rule) (Decision, error) {
	now := m.now()
	start, reset := window(now, rule)
	k := counterKey(rule, key, start)

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	if v, ok := m.counters.Get(k); ok {
		count = v.(int)
	}
	if count >= rule.Limit {
		return Decision{Rule: rule.Name, Allowed: false, Limit: rule.Limit, Remaining: 0, ResetAt: reset}, nil
	}
	count++
	m.counters.Set(k, count, reset.Sub(now)+time.Second)

	return Decision{Rule: rule.Name, Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - count, ResetAt: reset}, nil
}
