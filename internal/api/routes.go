package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// Monitoring trigger; schedulers send arbitrary methods, accept both
	router.GET("/monitor", handler.TriggerMonitor)
	router.POST("/monitor", handler.TriggerMonitor)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/runs", handler.ListRuns)
	}

	return router
}
