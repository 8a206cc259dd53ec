package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	loginRequestsPerSecond = 1
	loginBurst             = 5

	defaultIdleTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// RateLimiter implements token bucket rate limiting per client IP. Buckets
// unused for idleTTL are dropped; a returning client starts with a full one.
type RateLimiter struct {
	visitors  sync.Map // ip -> *visitor
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
		idleTTL: defaultIdleTTL,
		now:     time.Now,
	}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

// NewLoginRateLimiter slows password guessing against the admin login.
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(loginRequestsPerSecond, loginBurst)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()
	rl.maybeSweep(now)

	v, ok := rl.visitors.Load(key)
	if !ok {
		v, _ = rl.visitors.LoadOrStore(key, &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(now.UnixNano())
	return vis.limiter
}

// maybeSweep runs EvictIdle at most once per sweepInterval, on whichever
// request gets there first.
func (rl *RateLimiter) maybeSweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(sweepInterval) {
		return
	}
	if !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	rl.EvictIdle(now)
}

// EvictIdle drops every bucket not used since now minus idleTTL and returns
// how many were dropped.
func (rl *RateLimiter) EvictIdle(now time.Time) int {
	cutoff := now.Add(-rl.idleTTL).UnixNano()
	evicted := 0

	rl.visitors.Range(func(key, v any) bool {
		if v.(*visitor).lastSeen.Load() < cutoff && rl.visitors.CompareAndDelete(key, v) {
			evicted++
		}
		return true
	})
	return evicted
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(c.RealIP())
			limit := strconv.Itoa(rl.burst)

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitLimit, limit)
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			c.Response().Header().Set(headerRateLimitLimit, limit)
			c.Response().Header().Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}
