package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorIdleWindow is how long a client may stay quiet before its token
// bucket is dropped from the map.
const visitorIdleWindow = 5 * time.Minute

// RateLimiter throttles requests per client IP with token buckets. A nil
// *RateLimiter is valid and passes everything through.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// NewRateLimiter builds a limiter from a requests-per-minute budget. The
// burst is a tenth of the budget, at least one, so short spikes from a
// browser loading a page do not trip the limit. A budget of zero or less
// disables limiting.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// Handler answers 429 once a client's bucket is empty.
func (r *RateLimiter) Handler() gin.HandlerFunc {
	if r == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !r.bucketFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "rate_limited",
				"error_description": "Too many requests. Please slow down.",
			})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) bucketFor(ip string) *rate.Limiter {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.visitors[ip]; ok {
		v.seen = now
		return v.bucket
	}

	bucket := rate.NewLimiter(r.limit, r.burst)
	r.visitors[ip] = &visitor{bucket: bucket, seen: now}
	r.sweepLocked(now)
	return bucket
}

// sweepLocked drops buckets idle past the window so the map does not grow
// with every IP ever seen. Runs under the mutex, piggybacked on inserts.
func (r *RateLimiter) sweepLocked(now time.Time) {
	for ip, v := range r.visitors {
		if now.Sub(v.seen) > visitorIdleWindow {
			delete(r.visitors, ip)
		}
	}
}
