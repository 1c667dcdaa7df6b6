package middlewares

import (
	"time"

	. "bookingapp/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func LoggingMiddleware(logger *LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", GetClientIP(c)),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		level := zapcore.InfoLevel

		if c.Writer.Status() >= 500 {
			level = zapcore.ErrorLevel
		}

		if level == zapcore.ErrorLevel {
			logger.ErrorWithTrace(c.Request.Context(), "HTTP Request", fields...)
		} else {
			logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
		}
	}
}
