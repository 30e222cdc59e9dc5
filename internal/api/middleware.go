package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mail-triage/internal/processor"
	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

// RateLimitMiddleware rejects requests over the configured rate with 429.
// telemetryProvider may be nil.
func RateLimitMiddleware(limiter *processor.RateLimiter, telemetryProvider *telemetry.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			if telemetryProvider != nil {
				telemetryProvider.IncrementThrottled()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status, and duration.
func RequestLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
