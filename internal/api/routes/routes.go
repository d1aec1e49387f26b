package routes

import (
	"reviewradar/internal/api/handlers"
	"reviewradar/internal/api/middleware"
	"reviewradar/internal/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Global middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(gin.Recovery())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no auth required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/register", handlers.Register)
		}

		// Health check
		v1.GET("/health", handlers.HealthCheck)

		// WebSocket endpoint (no auth middleware for WebSocket)
		v1.GET("/ws/progress", handlers.ProgressWebSocket)

		// Protected routes (auth required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User management
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile)
				users.PUT("/profile", handlers.UpdateProfile)
			}

			// Crawl target management
			targets := protected.Group("/targets")
			{
				targets.GET("", handlers.GetTargets)
				targets.POST("", handlers.CreateTarget)
				targets.GET("/:id", handlers.GetTarget)
				targets.PUT("/:id", handlers.UpdateTarget)
				targets.DELETE("/:id", handlers.DeleteTarget)
				targets.POST("/:id/execute", handlers.ExecuteTarget)
			}

			// Crawl runs and solver diagnostics
			runs := protected.Group("/runs")
			{
				runs.GET("", handlers.GetRuns)
				runs.GET("/statistics", handlers.GetRunStatistics)
				runs.GET("/:id", handlers.GetRun)
				runs.GET("/:id/attempts", handlers.GetRunAttempts)
				runs.GET("/:id/reviews", handlers.GetRunReviews)
				runs.DELETE("/:id", handlers.DeleteRun)
			}
		}
	}

	return router
}
