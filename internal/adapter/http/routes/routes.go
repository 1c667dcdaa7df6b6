package routes

import (
	"bookingapp/internal/adapter/http/handler"
	. "bookingapp/pkg/config"
	. "bookingapp/pkg/middlewares"
	. "bookingapp/pkg/tracing"

	"github.com/gin-gonic/gin"
)

// HandlersConfig carries the handlers of one service; the other fields stay nil.
type HandlersConfig struct {
	Service         string
	PropertyHandler *handler.PropertyHandler
	UserHandler     *handler.UserHandler
	HealthHandler   *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger, config *AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	SetupGinMiddlewareWithConfig(router, handlers.Service+"-service", metrics, logger, config)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests wires the routes without telemetry, HTTPS or rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.Recovery())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.PropertyHandler != nil {
		setupPropertyRoutes(router, handlers.PropertyHandler)
	}

	if handlers.UserHandler != nil {
		setupUserRoutes(router, handlers.UserHandler)
	}
}

func setupPropertyRoutes(router *gin.Engine, h *handler.PropertyHandler) {
	properties := router.Group("/api/v1/properties")
	{
		properties.POST("", h.CreateProperty)
		properties.GET("", h.ListProperties)
		properties.POST("/batch", h.GetPropertiesByIDs)
		properties.GET("/owner/:ownerId", h.GetPropertiesByOwner)
		properties.GET("/:id", h.GetProperty)
		properties.PATCH("/:id", h.PatchProperty)
		properties.PATCH("/:id/status", h.SetPropertyStatus)
	}
}

func setupUserRoutes(router *gin.Engine, h *handler.UserHandler) {
	users := router.Group("/api/v1/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.POST("/batch", h.GetUsersByIDs)
		users.GET("/by-email/:email", h.GetUserByEmail)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.PatchUser)
		users.PATCH("/:id/delete", h.SetUserDeleted)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
