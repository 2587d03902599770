package middlewares

import (
	"strconv"
	"sync"
	"time"

	"restaurant/pkg/resp"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller. Authenticated callers are
// keyed by user id, others by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// UserKey is the limiter key for an authenticated user.
func UserKey(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}

// Allow takes one token from key's bucket and reports whether one was left.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	now := rl.now()
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := utils.CurrentUserID(c); id != 0 {
			key = UserKey(id)
		}
		if !rl.Allow(key) {
			resp.TooManyRequests(c, "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Cleanup drops limiters idle for longer than idle and returns how many went.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for k, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, k)
			removed++
		}
	}
	return removed
}
