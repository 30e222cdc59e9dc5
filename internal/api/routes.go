package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

// SetupRoutes configures all API routes. telemetryProvider may be nil, in
// which case no /metrics endpoint is mounted.
func SetupRoutes(router *gin.Engine, handler *Handler, telemetryProvider *telemetry.Provider) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus metrics
	if telemetryProvider != nil {
		router.GET("/metrics", gin.WrapH(telemetryProvider.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Classification endpoints
		classify := v1.Group("/classify")
		{
			classify.POST("", handler.Classify)            // POST /api/v1/classify
			classify.POST("/batch", handler.ClassifyBatch) // POST /api/v1/classify/batch
		}

		// Snapshot administration endpoints
		configGroup := v1.Group("/config")
		{
			configGroup.POST("/reload", handler.ReloadConfig) // POST /api/v1/config/reload
		}

		// Signal provider endpoints
		providers := v1.Group("/providers")
		{
			providers.GET("/health", handler.GetProvidersHealth) // GET /api/v1/providers/health
		}

		// Statistics endpoints
		stats := v1.Group("/stats")
		{
			stats.GET("", handler.GetStats) // GET /api/v1/stats
		}
	}
}
