package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response without HTML-escaping string contents.
func OK(c *gin.Context, payload any) {
	c.PureJSON(http.StatusOK, payload)
}
