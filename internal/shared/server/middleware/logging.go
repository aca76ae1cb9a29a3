package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/shared/telemetry"
)

// Context keys read by Logging. Handlers set them to tag the request line.
const (
	OperationKey = "operation"
	ErrorTypeKey = "errorType"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"operation":   c.GetString(OperationKey),
			"error_type":  c.GetString(ErrorTypeKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
