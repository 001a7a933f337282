package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/api/middleware"
	"github.com/MacJediWizard/licensemaker/internal/issuance"
	"github.com/MacJediWizard/licensemaker/internal/ledger"
	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxListLimit caps the page size accepted by List.
const maxListLimit = 1000

// IssuanceService defines the operations the license handler needs.
type IssuanceService interface {
	Issue(ctx context.Context, req license.Request) (*license.Issued, error)
	Decode(blob string) (license.Record, error)
	History(ctx context.Context, opts ledger.ListOptions) ([]*ledger.Entry, error)
	Issuer() *license.Issuer
}

// LicenseHandler handles license issuance HTTP endpoints.
type LicenseHandler struct {
	service IssuanceService
	logger  zerolog.Logger
}

// NewLicenseHandler creates a new LicenseHandler.
func NewLicenseHandler(service IssuanceService, logger zerolog.Logger) *LicenseHandler {
	return &LicenseHandler{
		service: service,
		logger:  logger.With().Str("component", "license_handler").Logger(),
	}
}

// RegisterRoutes registers license routes on the given router group.
func (h *LicenseHandler) RegisterRoutes(r *gin.RouterGroup) {
	licenses := r.Group("/licenses")
	{
		licenses.POST("", h.Issue)
		licenses.GET("", h.List)
		licenses.POST("/decode", h.Decode)
	}
	r.GET("/modules", h.Modules)
}

// IssueRequest is the request body for issuing a license.
type IssueRequest struct {
	license.Request
	// AllModules selects every module in the catalog and overrides Modules.
	AllModules bool `json:"allModules"`
}

// IssueResponse is the response for a successful issuance.
type IssueResponse struct {
	ID          uuid.UUID         `json:"id"`
	License     string            `json:"license"`
	Fingerprint string            `json:"fingerprint"`
	Scheme      license.Scheme    `json:"scheme"`
	Algorithm   license.Algorithm `json:"algorithm"`
	Record      license.Record    `json:"record"`
	IssuedAt    time.Time         `json:"issued_at"`
}

// ErrorResponse is the error body of the license endpoints. Rule and Field
// are set for validation failures.
type ErrorResponse struct {
	Error string       `json:"error"`
	Rule  license.Rule `json:"rule,omitempty"`
	Field string       `json:"field,omitempty"`
}

// Issue validates the request and returns a signed license blob.
//
// @Summary Issue a license
// @Description Validates the inputs, signs the canonical record and returns the Base64 license blob. The issuance is recorded in the ledger when enabled.
// @Tags Licenses
// @Accept json
// @Produce json
// @Param request body IssueRequest true "License inputs"
// @Success 201 {object} IssueResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 413 {object} ErrorResponse "Request body too large"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} ErrorResponse "Signing or ledger failure"
// @Router /licenses [post]
func (h *LicenseHandler) Issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if req.AllModules {
		req.Modules = h.service.Issuer().Catalog().Modules()
	}

	issued, err := h.service.Issue(c.Request.Context(), req.Request)
	if err != nil {
		h.issueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IssueResponse{
		ID:          issued.ID,
		License:     issued.Blob,
		Fingerprint: issued.Fingerprint(),
		Scheme:      issued.Scheme,
		Algorithm:   issued.Algorithm,
		Record:      issued.Record,
		IssuedAt:    issued.CreatedAt,
	})
}

// DecodeRequest is the request body for decoding a license blob.
type DecodeRequest struct {
	License string `json:"license" binding:"required"`
}

// DecodeResponse is the decoded license. Padding and Digest are split using
// the configured signer's digest length and are empty when the signature is
// shorter than that.
type DecodeResponse struct {
	Record  license.Record `json:"record"`
	Scheme  license.Scheme `json:"scheme"`
	Padding string         `json:"padding,omitempty"`
	Digest  string         `json:"digest,omitempty"`
}

// Decode parses a license blob. It does not verify the signature.
//
// @Summary Decode a license
// @Description Decodes a Base64 license blob and splits its signature into padding and digest. The signature is not verified.
// @Tags Licenses
// @Accept json
// @Produce json
// @Param request body DecodeRequest true "License blob"
// @Success 200 {object} DecodeResponse
// @Failure 400 {object} ErrorResponse "Malformed license"
// @Router /licenses/decode [post]
func (h *LicenseHandler) Decode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	rec, err := h.service.Decode(req.License)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := DecodeResponse{Record: rec, Scheme: rec.Scheme()}
	if padding, digest, err := license.SplitSignature(rec.Signature, h.service.Issuer().DigestLen()); err == nil {
		resp.Padding = padding
		resp.Digest = digest
	}

	c.JSON(http.StatusOK, resp)
}

// ListResponse is the response for the List endpoint.
type ListResponse struct {
	Licenses []*ledger.Entry `json:"licenses"`
}

// List returns recorded issuances, newest first.
//
// @Summary List issued licenses
// @Description Lists ledger entries newest first, optionally filtered by customer.
// @Tags Licenses
// @Produce json
// @Param customer_id query string false "Customer identifier"
// @Param limit query int false "Maximum entries (1-1000)" default(100)
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 503 {object} ErrorResponse "Ledger disabled"
// @Router /licenses [get]
func (h *LicenseHandler) List(c *gin.Context) {
	opts := ledger.ListOptions{CustomerID: c.Query("customer_id")}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		opts.Limit = limit
	}

	entries, err := h.service.History(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, issuance.ErrNoLedger) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger is disabled"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to list issuances")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list licenses"})
		return
	}

	if entries == nil {
		entries = []*ledger.Entry{}
	}
	c.JSON(http.StatusOK, ListResponse{Licenses: entries})
}

// ModulesResponse is the response for the Modules endpoint.
type ModulesResponse struct {
	Scheme  license.Scheme   `json:"scheme"`
	Modules []license.Module `json:"modules"`
}

// Modules returns the module catalog in display order.
//
// @Summary List licensable modules
// @Tags Licenses
// @Produce json
// @Success 200 {object} ModulesResponse
// @Router /modules [get]
func (h *LicenseHandler) Modules(c *gin.Context) {
	issuer := h.service.Issuer()
	c.JSON(http.StatusOK, ModulesResponse{
		Scheme:  issuer.Scheme(),
		Modules: issuer.Catalog().Modules(),
	})
}

func (h *LicenseHandler) bindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func (h *LicenseHandler) issueError(c *gin.Context, err error) {
	var verr *license.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: verr.Message,
			Rule:  verr.Rule,
			Field: verr.Field,
		})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request canceled"})
	default:
		// Signer and key failures are logged by the issuance service.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue license"})
	}
}
