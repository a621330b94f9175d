package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/halcyonmedia/site-services/pkg/logger"
	"github.com/halcyonmedia/site-services/pkg/metrics"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica.
// Each window allows floor(rps*window)+burst requests per client key. When
// Redis is unreachable the request is checked against an in-process bucket
// instead, so an outage never blocks form submissions outright.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int(rps*float64(windowSeconds)) + burst
	fallback := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		key := clientKey(c)
		redisKey := fmt.Sprintf("rl:%s:%d", key, time.Now().Unix()/int64(windowSeconds))

		ctx := c.Request.Context()
		cnt, err := client.Incr(ctx, redisKey).Result()
		if err != nil {
			logger.Warnf("redis rate limit unavailable, using local bucket: %v", err)
			if !fallback.allow(key, time.Now()) {
				reject(c, "memory", "1")
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
			c.Next()
			return
		}
		if cnt == 1 {
			_ = client.Expire(ctx, redisKey, time.Duration(windowSeconds+1)*time.Second).Err()
		}
		if int(cnt) > allowedPerWindow {
			reject(c, "redis", fmt.Sprintf("%d", windowSeconds))
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
