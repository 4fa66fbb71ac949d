package blog

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RequestLimiter rate-limits requests per client IP. Each IP gets a token
// bucket that holds max requests and refills at max per window.
type RequestLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRequestLimiter creates a RequestLimiter that allows max requests per
// window for each IP.
func NewRequestLimiter(max int, window time.Duration) *RequestLimiter {
	return &RequestLimiter{
		clients: make(map[string]*client),
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether ip is under the limit and records the request.
func (l *RequestLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
		l.lastSweep = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops IPs idle for a whole window; their buckets are full again.
// Callers hold mu.
func (l *RequestLimiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.window {
			delete(l.clients, ip)
		}
	}
}

// Tracked returns the number of IPs currently held.
func (l *RequestLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// searchLimitMiddleware throttles the htmx post list partial, which live
// search requests on every keystroke.
func (a *App) searchLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.searchLimiter != nil && isPartial(c, "posts") && !a.searchLimiter.Allow(c.RealIP()) {
			return echo.NewHTTPError(http.StatusTooManyRequests)
		}
		return next(c)
	}
}
