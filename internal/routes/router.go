package routes

import (
	"net/http"

	"diskmosaic/internal/config"
	"diskmosaic/internal/controllers"
	"diskmosaic/internal/metrics"
	"diskmosaic/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP engine with security middleware and all routes.
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(cfg.AllowedIPs)))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	if middleware.GlobalSecurityLogger == nil {
		middleware.NewSecurityLogger()
	}

	var auth []gin.HandlerFunc
	if cfg.AuthRequired {
		auth = append(auth, middleware.RequireToken(middleware.NewAuthFailureLimiter()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", auth...)
	RegisterScanRoutes(api)
	RegisterSettingsRoutes(api)

	RegisterAuthRoutes(r, controllers.NewUpgrader(cfg.AllowedOrigins), auth...)

	return r
}
