// api/router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dev-mohitbeniwal/aegis/api/controller"
	"github.com/dev-mohitbeniwal/aegis/api/middleware"
)

// Options carries the cross-cutting settings SetupRouter needs.
type Options struct {
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	AdminRole         string
}

func SetupRouter(controllers *controller.Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if opts.RateLimitEnabled {
		router.Use(middleware.RateLimiter(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Auth())

	controllers.Access.RegisterRoutes(api)

	// Cache administration and the audit trail need the admin role on top
	// of a valid token.
	admin := api.Group("")
	admin.Use(middleware.RequireRole(opts.AdminRole))
	controllers.Acl.RegisterRoutes(admin)
	controllers.Audit.RegisterRoutes(admin)

	return router
}
