package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func TestVersionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewVersionHandler("1.2.3", "abc123", "2025-07-01", zerolog.Nop()).RegisterPublicRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/version", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var info VersionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.Name != "licensemaker" {
		t.Fatalf("unexpected version info: %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Fatalf("unexpected go version %q", info.GoVersion)
	}
}

func TestMetricsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "licensemaker_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(3)

	r := gin.New()
	NewMetricsHandler(reg, zerolog.Nop()).RegisterPublicRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "licensemaker_test_total 3") {
		t.Fatalf("expected counter in output, got:\n%s", w.Body.String())
	}
}
