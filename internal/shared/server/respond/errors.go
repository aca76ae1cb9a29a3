package respond

import (
	"github.com/gin-gonic/gin"

	"service-advisor/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error logs the failure with its diagnostic fields and sends a standardized
// error response. Only errType, message and details reach the client.
func Error(c *gin.Context, status int, errType, message, details string, diagnostics map[string]any) {
	fields := map[string]any{
		"status":     status,
		"type":       errType,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	for k, v := range diagnostics {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	telemetry.Error("http.error", fields)

	c.Set("errorType", errType)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Message: message,
			Type:    errType,
			Details: details,
		},
	})
}
