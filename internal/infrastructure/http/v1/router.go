// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockcard/internal/core/apperror"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/infrastructure/http/v1/handlers"
	"stockcard/internal/infrastructure/http/v1/middleware"
	"stockcard/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Reports computes stock cards and situations
	Reports handlers.ReportService

	// Source is pinged by the readiness probe
	Source     handlers.Pinger
	SourceKind string
	Version    string

	// JWTValidator enables authentication on /api/v1 when set
	JWTValidator middleware.JWTValidator

	// Clock decides the default fiscal year (nil: system clock)
	Clock fiscal.Clock

	// ServiceName enables OpenTelemetry server spans when set
	ServiceName string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: spans first so Trace can reuse their IDs.
	router.Use(middleware.Recovery())
	if cfg.ServiceName != "" {
		router.Use(middleware.Tracing(cfg.ServiceName))
	}
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Source, cfg.SourceKind, cfg.Version)
	healthHandler.RegisterRoutes(router.Group("/health"))

	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	reportsHandler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports, cfg.Clock)
	reportsHandler.RegisterRoutes(api.Group("/reports"))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("route", c.Request.URL.Path))
	})

	return router
}
