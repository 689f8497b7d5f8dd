package middleware

import (
	"sync"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const staleClientAfter = 3 * time.Minute

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// RateLimiter hands out a token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if c, ok := rl.clients[ip]; ok {
		c.seen = now
		return c.limiter
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients[ip] = &client{limiter: l, seen: now}
	return l
}

// Prune forgets clients that haven't been seen for a while.
func (rl *RateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, c := range rl.clients {
		if now.Sub(c.seen) > staleClientAfter {
			delete(rl.clients, ip)
		}
	}
}

// Limit is a Gin middleware rejecting requests of clients exceeding their rate.
func (rl *RateLimiter) Limit(c *gin.Context) {
	if !rl.get(c.ClientIP()).Allow() {
		_ = c.Error(errdef.NewTooManyRequests("too many requests"))
		c.Abort()
		return
	}

	c.Next()
}
