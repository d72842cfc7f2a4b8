package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// RateLimiter is a fixed-window limiter keyed per IP, method and route.
// When Redis is unavailable requests are let through.
func RateLimiter(client *redis.Client, maxRequests int, window time.Duration, logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			if logger != nil {
				logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			}
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > maxRequests {
			retryAfter := window
			if ttl, err := client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "RATE_LIMITED",
					Message: "Too many requests",
				},
				RequestID: GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
