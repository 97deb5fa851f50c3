// Package ratelimiter throttles requests per client with token buckets.
package ratelimiter

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hrms_backend/internal/api"
)

// Config holds the token bucket settings shared by every client.
type Config struct {
	Rate            rate.Limit
	Burst           int
	CleanupInterval time.Duration
}

// DefaultConfig allows 30 requests per minute with a burst of 10.
func DefaultConfig() Config {
	return Config{
		Rate:            rate.Limit(30.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

// NewRateLimiter creates a limiter. Idle entries are evicted by Cleanup.
func NewRateLimiter(cfg Config) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	return &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Allow consumes a token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = now
	rl.mu.Unlock()

	return cl.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Cleanup drops clients idle for longer than twice the cleanup interval.
func (rl *RateLimiter) Cleanup() {
	ttl := rl.cfg.CleanupInterval * 2
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}

// Run evicts idle clients every cleanup interval until stop is closed.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
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

// Middleware rejects requests over the client's budget with 429.
// Clients are keyed by remote IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rl.Allow(key) {
			c.Next()
			return
		}

		slog.Warn("rate limit exceeded",
			slog.String("client_ip", key),
			slog.String("path", c.FullPath()),
		)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rl.cfg.Rate)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Fail[any]("too many requests"))
	}
}

// retryAfterSeconds is the time for one token to refill, at least one second.
func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 || r == rate.Inf {
		return 1
	}
	sec := int(math.Ceil(1.0 / float64(r)))
	if sec < 1 {
		sec = 1
	}
	return sec
}
