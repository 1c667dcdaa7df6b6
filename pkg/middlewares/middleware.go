package middlewares

import (
	"strconv"
	"time"

	. "bookingapp/pkg/config"
	. "bookingapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func MetricsMiddleware(metrics *AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()

		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *LokiLogger) {
	SetupGinMiddlewareWithConfig(router, serviceName, metrics, logger, GetDefaultConfig())
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *LokiLogger, config *AppConfig) {
	httpsEnforcer := NewHTTPSEnforcer(logger.Logger.Logger, config.EnforceHTTPS)
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))

	router.Use(LoggingMiddleware(logger))

	if config.RateLimitEnabled {
		rateLimiter := NewRateLimiter(logger.Logger.Logger, metrics, NewRateLimitStore(config), config.RateLimitConfigs)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
