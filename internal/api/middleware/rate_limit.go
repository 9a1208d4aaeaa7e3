package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"wattfeed/internal/config"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	window   int
	requests int
	// idle is how long an unused bucket is kept
	idle time.Duration
	now  func() time.Time
	log  *logger.Entry
}

// NewRateLimiter refills Requests tokens per Window seconds, up to Burst
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Window)),
		burst:    cfg.RateLimit.Burst,
		window:   cfg.RateLimit.Window,
		requests: cfg.RateLimit.Requests,
		idle:     time.Hour,
		now:      time.Now,
		log:      logger.GetLogger().WithComponent("rate_limit"),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Cleanup drops buckets idle for longer than the idle period and returns how many remain
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idle)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
	return len(rl.visitors)
}

// Run evicts idle buckets every interval until stop is closed
func (rl *RateLimiter) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-stop:
			return
		}
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := rl.getLimiter(key)
		now := rl.now()

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))

		if !limiter.AllowN(now, 1) {
			r := limiter.ReserveN(now, 1)
			wait := r.DelayFrom(now)
			r.CancelAt(now)

			retry := int(wait.Seconds())
			if wait > time.Duration(retry)*time.Second {
				retry++
			}

			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(wait).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", retry))
			rl.log.WithFields(logger.Fields{"client_ip": key, "path": c.Request.URL.Path}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		remaining := int(limiter.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(rl.window)*time.Second).Unix()))

		c.Next()
	}
}
