package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/infrastructure/ratelimit"
)

// RateLimit applies a fixed-window limit keyed by client IP and route. A nil
// limiter disables limiting, which is how the middleware behaves when Redis
// is not configured.
func RateLimit(limiter *ratelimit.Limiter, name string, rule config.RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := name + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, rule) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
