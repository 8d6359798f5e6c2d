// Package ratelimit implements fixed-window request counters keyed by client address and route.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Rule caps the number of hits per key inside one window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Decision is the outcome of one check-and-record call.
type Decision struct {
	Rule      string
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter records a hit for key under rule and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Decision, error)
}

// PerMinute, PerHour and PerDay build the common rules.
func PerMinute(limit int) Rule { return Rule{Name: "minute", Limit: limit, Window: time.Minute} }
func PerHour(limit int) Rule   { return Rule{Name: "hour", Limit: limit, Window: time.Hour} }
func PerDay(limit int) Rule    { return Rule{Name: "day", Limit: limit, Window: 24 * time.Hour} }

// Check applies every rule in order and stops at the first one that throttles.
// Rules with a non-positive limit are skipped.
func Check(ctx context.Context, l Limiter, key string, rules ...Rule) (Decision, error) {
	result := Decision{Allowed: true, Remaining: -1}
	for _, rule := range rules {
		if rule.Limit <= 0 {
			continue
		}
		d, err := l.Allow(ctx, key, rule)
		if err != nil {
			return Decision{}, err
		}
		if !d.Allowed {
			return d, nil
		}
		if result.Remaining < 0 || d.Remaining < result.Remaining {
			result = d
		}
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	return result, nil
}

func window(now time.Time, rule Rule) (start, reset time.Time) {
	start = now.UTC().Truncate(rule.Window)
	return start, start.Add(rule.Window)
}

func counterKey(rule Rule, key string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", rule.Name, key, start.Unix())
}
