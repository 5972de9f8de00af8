package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calendario-tech/review-console/internal/config"
	"github.com/calendario-tech/review-console/internal/handlers"
	"github.com/calendario-tech/review-console/internal/middleware"
	"github.com/calendario-tech/review-console/internal/services"
)

// HandlerDependencies carries the constructed handlers into the router.
type HandlerDependencies struct {
	AuthHandler   *handlers.AuthHandler
	EventHandler  *handlers.EventHandler
	ReviewHandler *handlers.ReviewHandler
	Sessions      services.SessionService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	// Create router
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.POST("/auth/login", deps.AuthHandler.Login)
	}

	// Protected routes: everything past login requires a live session
	protected := router.Group("/api/v1")
	protected.Use(middleware.SessionRequired(deps.Sessions))
	{
		// Session routes
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", deps.AuthHandler.Logout)
			auth.GET("/session", deps.AuthHandler.Session)
		}

		// Event collection routes
		events := protected.Group("/events")
		{
			events.GET("/pending", deps.EventHandler.GetPending)
			events.GET("/pending/tags", deps.EventHandler.GetPendingTags)
			events.GET("/approved", deps.EventHandler.GetApproved)
			events.GET("/approved/tags", deps.EventHandler.GetApprovedTags)
			events.POST("/reload", deps.EventHandler.Reload)
			events.DELETE("/:id", deps.EventHandler.Delete)
		}

		// Review workflow routes
		review := protected.Group("/review")
		{
			review.GET("", deps.ReviewHandler.State)
			review.POST("/select/:id", deps.ReviewHandler.Select)
			review.POST("/edits", deps.ReviewHandler.ApplyEdit)
			review.POST("/request", deps.ReviewHandler.Request)
			review.POST("/confirm", deps.ReviewHandler.Confirm)
			review.POST("/cancel", deps.ReviewHandler.Cancel)
			review.DELETE("", deps.ReviewHandler.Close)
		}
	}

	return router
}
