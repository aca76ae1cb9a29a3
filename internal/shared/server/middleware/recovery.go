package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/shared/server/respond"
)

// Recovery recovers from panics and returns an InternalError envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				respond.Error(c, http.StatusInternalServerError, "InternalError", "An internal server error occurred.", "", map[string]any{
					"detail": fmt.Sprintf("panic: %v", rec),
					"stack":  string(debug.Stack()),
				})
			}
		}()
		c.Next()
	}
}
