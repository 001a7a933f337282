package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/issuance"
	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/MacJediWizard/licensemaker/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, cfg Config) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := license.NewIssuer(license.IssuerConfig{})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheusMetrics(reg)
	require.NoError(t, err)

	svc := issuance.NewService(issuer, nil, m, zerolog.Nop())
	router, err := NewRouter(cfg, Dependencies{Service: svc, Gatherer: reg}, zerolog.Nop())
	require.NoError(t, err)
	return router
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t, DefaultConfig())

	for _, path := range []string{"/health", "/version", "/metrics", "/api/v1/modules"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", path, nil)
			router.Engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouter_APIDocs(t *testing.T) {
	router := newTestRouter(t, DefaultConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/docs/doc.json", nil)
	router.Engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths["/licenses"], "post")
	assert.Contains(t, doc.Paths["/licenses"], "get")
	assert.Contains(t, doc.Paths["/licenses/decode"], "post")
	assert.Contains(t, doc.Paths["/modules"], "get")
}

func TestRouter_IssueUpdatesMetrics(t *testing.T) {
	router := newTestRouter(t, DefaultConfig())

	body := `{"customerId":"TARENJ","startDate":"2025-07-30","endDate":"2025-09-15","modules":["auth"]}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/licenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.Engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	router.Engine.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `licensemaker_licenses_issued_total{algorithm="sha256",scheme="modular"} 1`)
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitPeriod = time.Minute
	router := newTestRouter(t, cfg)

	get := func(path string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		req.RemoteAddr = "10.1.1.1:4000"
		router.Engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/v1/modules"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/v1/modules"))
	assert.Equal(t, http.StatusOK, get("/health"))
}

func TestRouter_BodyLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 128
	router := newTestRouter(t, cfg)

	body := `{"customerId":"` + strings.Repeat("x", 512) + `"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/licenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewRouter_InvalidRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, err := license.NewIssuer(license.IssuerConfig{})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RateLimitPeriod = 0
	_, err = NewRouter(cfg, Dependencies{Service: issuance.NewService(issuer, nil, nil, zerolog.Nop())}, zerolog.Nop())
	assert.Error(t, err)
}
