// Package api provides the HTTP API for the license issuance service.
package api

import (
	"time"

	_ "github.com/MacJediWizard/licensemaker/internal/api/docs"
	"github.com/MacJediWizard/licensemaker/internal/api/handlers"
	"github.com/MacJediWizard/licensemaker/internal/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config holds configuration for the API router.
type Config struct {
	// RateLimitRequests is the number of API requests allowed per period per client; zero disables limiting.
	RateLimitRequests int64
	// RateLimitPeriod is the rate limiting window.
	RateLimitPeriod time.Duration
	// MaxBodyBytes caps request bodies on API routes.
	MaxBodyBytes int64
	// Version information for the version endpoint.
	Version   string
	Commit    string
	BuildDate string
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		RateLimitRequests: 60,
		RateLimitPeriod:   time.Minute,
		MaxBodyBytes:      64 * 1024,
		Version:           "dev",
		Commit:            "unknown",
		BuildDate:         "unknown",
	}
}

// Dependencies are the services the router exposes.
type Dependencies struct {
	Service  handlers.IssuanceService
	Ledger   handlers.LedgerHealthChecker
	Gatherer prometheus.Gatherer
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(cfg Config, deps Dependencies, logger zerolog.Logger) (*Router, error) {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
	}

	// Global middleware
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.SecurityHeaders())

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(deps.Ledger, deps.Service.Issuer(), logger)
	healthHandler.RegisterPublicRoutes(r.Engine)

	// Version endpoint
	versionHandler := handlers.NewVersionHandler(cfg.Version, cfg.Commit, cfg.BuildDate, logger)
	versionHandler.RegisterPublicRoutes(r.Engine)

	// Prometheus metrics endpoint
	if deps.Gatherer != nil {
		metricsHandler := handlers.NewMetricsHandler(deps.Gatherer, logger)
		metricsHandler.RegisterPublicRoutes(r.Engine)
	}

	// Swagger API documentation
	r.Engine.GET(middleware.DocsPathPrefix+"*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL(middleware.DocsPathPrefix+"doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	// API v1 routes
	apiV1 := r.Engine.Group("/api/v1")

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	if err != nil {
		return nil, err
	}
	apiV1.Use(rateLimiter)
	apiV1.Use(middleware.BodyLimitMiddleware(cfg.MaxBodyBytes))

	licenseHandler := handlers.NewLicenseHandler(deps.Service, logger)
	licenseHandler.RegisterRoutes(apiV1)

	r.logger.Debug().
		Int64("rate_limit_requests", cfg.RateLimitRequests).
		Dur("rate_limit_period", cfg.RateLimitPeriod).
		Msg("routes registered")

	return r, nil
}
