package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mealcart/backend/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/mealplan",
			RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst),
			handler.CreateMealPlan)

		prices := v1.Group("/prices")
		{
			prices.GET("", handler.ListPrices)
			prices.POST("", handler.IngestPrices)
		}
	}

	return router
}
