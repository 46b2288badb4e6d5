package api

import (
	"qrscan-go/pkg/api/handlers"
	"qrscan-go/pkg/api/middleware"
	"qrscan-go/pkg/scanner"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures transport-level behaviour of the API
type RouterOptions struct {
	// AllowedOrigins restricts WebSocket upgrades; empty allows any origin
	AllowedOrigins []string
}

func NewRouter(manager *scanner.Manager, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", handlers.CreateSession(manager))

		// Session-scoped routes
		session := v1.Group("/sessions/:id")
		session.Use(middleware.RequireSession(manager))
		{
			session.GET("", handlers.GetSession)
			session.DELETE("", handlers.DeleteSession(manager))
			session.POST("/reset", handlers.ResetSession)

			session.GET("/scans", handlers.ListScans)
			session.POST("/scans", handlers.CreateScan)
			session.DELETE("/scans", handlers.ClearScans)
			session.POST("/upload", handlers.UploadScan)
			session.POST("/frames", handlers.SubmitFrame)
			session.GET("/stream", handlers.StreamSession(opts.AllowedOrigins))

			session.PUT("/webhook", handlers.UpdateWebhook)
			session.PUT("/devices", handlers.SetDevices)
			session.PUT("/devices/selected", handlers.SelectDevice)
		}
	}

	return router
}
