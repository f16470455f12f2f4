// Package ratelimiter slows down password guessing against the local API.
package ratelimiter

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultIdle = 10 * time.Minute

type Config struct {
	RPS   float64
	Burst int

	// Clients quiet for longer than this are forgotten.
	Idle time.Duration
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

type client struct {
	bucket *rate.Limiter
	seen   time.Time
}

// New returns nil when RPS or Burst is not positive. A nil Limiter lets
// every request through.
func New(cfg Config) *Limiter {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return nil
	}
	if cfg.Idle <= 0 {
		cfg.Idle = defaultIdle
	}
	return &Limiter{
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idle:    cfg.Idle,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Take spends one token for key. When the bucket is empty it reports how
// long the client has to wait for the next one.
func (l *Limiter) Take(key string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.seen = now

	r := cl.bucket.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Clients is the number of keys currently tracked.
func (l *Limiter) Clients() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) sweepLocked(now time.Time) {
	for k, cl := range l.clients {
		if now.Sub(cl.seen) > l.idle {
			delete(l.clients, k)
		}
	}
	l.lastSweep = now
}

// Middleware limits requests per key(c). Rejected requests get a
// Retry-After header and are handed to reject, which should abort them.
func (l *Limiter) Middleware(key func(*gin.Context) string, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Take(key(c))
		if ok {
			c.Next()
			return
		}

		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		if reject != nil {
			reject(c)
		}
		if !c.IsAborted() {
			c.AbortWithStatus(http.StatusTooManyRequests)
		}
	}
}
