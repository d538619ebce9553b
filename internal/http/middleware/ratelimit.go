package middleware

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and last seen time for one client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	perMin   float64
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter allows perMin requests per minute per IP with the given
// burst. Non-positive values fall back to 30/min with burst 10.
func NewRateLimiter(perMin float64, burst int) *RateLimiter {
	if perMin <= 0 {
		perMin = 30
	}
	if burst <= 0 {
		burst = 10
	}
	return &RateLimiter{
		perMin:   perMin,
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.perMin/60.0), rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// clientIP prefers the first X-Forwarded-For hop; phones reach the service
// through the platform's proxy, so the socket peer is not the caller.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.IP()
}

// Handler rejects clients over their budget with 429.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.limiterFor(clientIP(c)).Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded: max %.0f requests per minute", rl.perMin))
		}
		return c.Next()
	}
}

// StartCleanup evicts idle visitor buckets every minute until stop is closed.
func (rl *RateLimiter) StartCleanup(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				rl.mu.Lock()
				for ip, v := range rl.visitors {
					if time.Since(v.lastSeen) > 3*time.Minute {
						delete(rl.visitors, ip)
					}
				}
				rl.mu.Unlock()
			}
		}
	}()
}
