package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type windowEntry struct {
	startTime time.Time
	count     int
}

// RateLimiter implements a fixed window per client IP. With a redis
// client the counters are shared across instances (INCR + EXPIRE); the
// in-process map fallback is only correct for a single-instance
// deployment.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
	logger *zap.Logger

	mu    sync.Mutex
	local map[string]*windowEntry
}

func NewRateLimiter(rdb *redis.Client, window time.Duration, max int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		window: window,
		max:    max,
		logger: logger,
		local:  make(map[string]*windowEntry),
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := true
		if rl.rdb != nil {
			allowed = rl.allowRedis(c)
		} else {
			allowed = rl.allowLocal(c.ClientIP())
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allowRedis(c *gin.Context) bool {
	ctx := c.Request.Context()
	key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

	n, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		// fail open: a broken counter store must not take the API down
		rl.logger.Warn("rate limiter redis error", zap.Error(err))
		return true
	}
	if n == 1 {
		rl.rdb.Expire(ctx, key, rl.window)
	}
	return n <= int64(rl.max)
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.local[ip]
	if !ok || now.Sub(entry.startTime) > rl.window {
		rl.local[ip] = &windowEntry{startTime: now, count: 1}
		return true
	}

	entry.count++
	return entry.count <= rl.max
}
