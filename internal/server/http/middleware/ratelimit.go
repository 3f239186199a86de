package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/polkiloo/restaurant/internal/server/http/dto"
)

// TooManyRequestsMessage is returned to throttled clients.
const TooManyRequestsMessage = "Too many requests."

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client IP.
type ClientRateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

// NewClientRateLimiter allows perSecond requests per client with the given burst.
func NewClientRateLimiter(perSecond float64, burst int) *ClientRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ClientRateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether key may proceed now.
func (l *ClientRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Clients returns the number of tracked clients.
func (l *ClientRateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects clients that exhausted their bucket with 429.
// A nil limiter lets every request through.
func RateLimit(l *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Response{Success: false, Message: TooManyRequestsMessage})
	}
}
