package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult represents the result of a health check.
type HealthCheckResult struct {
	Status   HealthStatus   `json:"status"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status HealthStatus                  `json:"status"`
	Checks map[string]*HealthCheckResult `json:"checks,omitempty"`
	Error  string                        `json:"error,omitempty"`
}

// LedgerHealthChecker defines the interface for ledger health checking.
type LedgerHealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health-related HTTP endpoints.
type HealthHandler struct {
	ledger LedgerHealthChecker
	issuer *license.Issuer
	logger zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler. ledger may be nil when the
// ledger is disabled.
func NewHealthHandler(ledger LedgerHealthChecker, issuer *license.Issuer, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		ledger: ledger,
		issuer: issuer,
		logger: logger.With().Str("component", "health_handler").Logger(),
	}
}

// RegisterPublicRoutes registers health check routes.
func (h *HealthHandler) RegisterPublicRoutes(r *gin.Engine) {
	health := r.Group("/health")
	{
		health.GET("", h.Overall)
		health.GET("/ledger", h.Ledger)
	}
}

// Overall returns the overall service health status.
// GET /health
func (h *HealthHandler) Overall(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := &HealthResponse{
		Status: HealthStatusHealthy,
		Checks: map[string]*HealthCheckResult{
			"ledger": h.checkLedger(ctx),
			"signer": h.checkSigner(),
		},
	}

	for _, result := range response.Checks {
		if result.Status == HealthStatusUnhealthy {
			response.Status = HealthStatusUnhealthy
		}
	}

	if response.Status == HealthStatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Ledger returns the ledger health status.
// GET /health/ledger
func (h *HealthHandler) Ledger(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result := h.checkLedger(ctx)

	response := &HealthResponse{
		Status: result.Status,
		Checks: map[string]*HealthCheckResult{
			"ledger": result,
		},
	}

	if result.Status == HealthStatusUnhealthy {
		response.Error = result.Error
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// checkLedger pings the ledger database. A disabled ledger is not unhealthy.
func (h *HealthHandler) checkLedger(ctx context.Context) *HealthCheckResult {
	start := time.Now()
	result := &HealthCheckResult{
		Status: HealthStatusHealthy,
	}

	if h.ledger == nil {
		result.Details = map[string]any{"configured": false}
		result.Duration = time.Since(start).String()
		return result
	}

	err := h.ledger.Ping(ctx)
	result.Duration = time.Since(start).String()

	if err != nil {
		result.Status = HealthStatusUnhealthy
		result.Error = "ledger ping failed"
		h.logger.Warn().Err(err).Msg("ledger health check failed")
		return result
	}

	result.Details = map[string]any{"configured": true}
	return result
}

// checkSigner reports the configured signer. Key material is never exposed.
func (h *HealthHandler) checkSigner() *HealthCheckResult {
	if h.issuer == nil {
		return &HealthCheckResult{
			Status: HealthStatusUnhealthy,
			Error:  "issuer not configured",
		}
	}

	return &HealthCheckResult{
		Status: HealthStatusHealthy,
		Details: map[string]any{
			"scheme":     string(h.issuer.Scheme()),
			"algorithm":  string(h.issuer.Algorithm()),
			"digest_len": h.issuer.DigestLen(),
		},
	}
}
