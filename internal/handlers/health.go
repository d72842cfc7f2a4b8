package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthCheck returns the health status of the service
// @Summary Health check
// @Description Returns the health status of the catalog service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "catalog-service",
		"version": "1.0.0",
	})
}

// ReadyCheck reports the snapshot cache state. A failed ping degrades the
// status but never fails the probe.
func ReadyCheck(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cache := "disabled"
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				cache = "unavailable"
			} else {
				cache = "ok"
			}
		}

		status := "ready"
		if cache == "unavailable" {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"service": "catalog-service",
			"cache":   cache,
		})
	}
}
