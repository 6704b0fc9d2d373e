package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitPrefix = "rate_limit:"

// RateLimiterMiddleware is a fixed-window counter keyed by user id when the
// request is authenticated, by client IP otherwise. Redis failures let the
// request through.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := rateLimitPrefix + rateLimitSubject(c)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("rate limiter skipped: redis unavailable")
			c.Next()
			return
		}

		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.WithError(err).WithField("key", key).Warn("rate limiter expire failed, dropping key")
				rdb.Del(ctx, key)
				c.Next()
				return
			}
		}

		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(limit)-count)))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retry_in_s": int(ttl.Seconds()),
			})
			return
		}

		c.Next()
	}
}

func rateLimitSubject(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
