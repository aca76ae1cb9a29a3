package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/recommend"
	"service-advisor/internal/services/health"
	"service-advisor/internal/shared/config"
	"service-advisor/internal/shared/metrics"
	"service-advisor/internal/shared/server/middleware"
	"service-advisor/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, handler *recommend.Handler, healthSvc *health.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())
	handler.RegisterRoutes(r)

	r.NoRoute(recommend.NotFound)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
