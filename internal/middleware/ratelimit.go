package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/pkg/ratelimit"
)

// RateLimitConfig configures one limiter middleware.
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	Rules   []ratelimit.Rule
	// Skip exempts matching requests.
	Skip func(c *gin.Context) bool
	// OnThrottle writes the refusal; it defaults to a plain-text 429.
	OnThrottle gin.HandlerFunc
	Metrics    *service.MetricsService
	Logger     *zap.Logger
}

// RateLimit counts requests per client address and route. A throttled request never reaches
// the handler. Limiter failures are logged and let the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OnThrottle == nil {
		cfg.OnThrottle = throttledText
	}
	return func(c *gin.Context) {
		if cfg.Limiter == nil || len(cfg.Rules) == 0 || (cfg.Skip != nil && cfg.Skip(c)) {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := c.ClientIP() + "|" + c.Request.Method + " " + route

		decision, err := ratelimit.Check(c.Request.Context(), cfg.Limiter, key, cfg.Rules...)
		if err != nil {
			cfg.Logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retry := int(time.Until(decision.ResetAt).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			cfg.Metrics.RecordThrottled(decision.Rule)
			cfg.Logger.Info("request throttled", zap.String("key", key), zap.String("rule", decision.Rule))
			cfg.OnThrottle(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func throttledText(c *gin.Context) {
	c.String(http.StatusTooManyRequests, "Too many requests, please try again later.")
}
