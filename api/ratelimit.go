package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdle is how long a client's bucket is kept after its last request.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
// Buckets idle for longer than limiterIdle are dropped.
type IPRateLimiter struct {
	ips       map[string]*clientLimiter
	mu        *sync.Mutex
	r         rate.Limit
	b         int
	now       func() time.Time
	lastSweep time.Time
}

// NewIPRateLimiter returns a limiter allowing r requests per second with bursts of b per client.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*clientLimiter),
		mu:        &sync.Mutex{},
		r:         r,
		b:         b,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// GetLimiter returns the limiter of the provided IP, creating it if needed.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdle {
		for k, cl := range l.ips {
			if now.Sub(cl.lastSeen) > limiterIdle {
				delete(l.ips, k)
			}
		}
		l.lastSweep = now
	}

	cl, exists := l.ips[ip]
	if !exists {
		cl = &clientLimiter{Limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = cl
	}
	cl.lastSeen = now

	return cl.Limiter
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// RateLimit rejects requests above the client's rate with 429.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
