package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/halcyonmedia/site-services/pkg/metrics"
)

// idleBucketTTL is how long an unused per-client bucket is kept.
const idleBucketTTL = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterStore is a per-key token-bucket store with idle eviction.
type limiterStore struct {
	mu      sync.Mutex
	rps     float64
	burst   int
	buckets map[string]*bucket
	sweep   time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{rps: rps, burst: burst, buckets: map[string]*bucket{}}
}

func (s *limiterStore) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.sweep) > idleBucketTTL {
		for k, b := range s.buckets {
			if now.Sub(b.seen) > idleBucketTTL {
				delete(s.buckets, k)
			}
		}
		s.sweep = now
	}
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// clientKey picks the rate-limit key: the authenticated subject when claims
// are present, otherwise the client IP, scoped to the matched route so each
// form has its own budget.
func clientKey(c *gin.Context) string {
	route := c.FullPath()
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 && sub != "" {
				return route + "|sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return route + "|ip:" + ip
}

func reject(c *gin.Context, limiter, retryAfter string) {
	c.Header("Retry-After", retryAfter)
	metrics.RateLimitRejected.WithLabelValues(limiter).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again shortly."})
}

// RateLimitMiddleware enforces an in-process token bucket per client key.
// rps is the refill rate and burst the bucket size.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)
	return func(c *gin.Context) {
		if !store.allow(clientKey(c), time.Now()) {
			reject(c, "memory", "1")
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
