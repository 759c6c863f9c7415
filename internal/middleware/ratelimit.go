package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding-window limiter keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	stopped chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		stopped: make(chan struct{}),
	}
	go r.sweep()
	return r
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.window)
	kept := r.seen[key][:0]
	for _, t := range r.seen[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= r.limit {
		r.seen[key] = kept
		return false
	}
	r.seen[key] = append(kept, time.Now())
	return true
}

func (r *RateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-r.stopped:
			return
		case <-tick.C:
		}
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for key, times := range r.seen {
			kept := times[:0]
			for _, t := range times {
				if t.After(cutoff) {
					kept = append(kept, t)
				}
			}
			if len(kept) == 0 {
				delete(r.seen, key)
			} else {
				r.seen[key] = kept
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopped)
}

// RateLimit limits requests per client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
