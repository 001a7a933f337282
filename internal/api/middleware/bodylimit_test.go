package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bodyLimitRouter(maxBytes int64) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimitMiddleware(maxBytes))
	r.POST("/test", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			if IsBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "read body"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestBodyLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := bodyLimitRouter(1024)

	tests := []struct {
		name     string
		size     int
		wantCode int
	}{
		{"under limit", 512, http.StatusOK},
		{"exact limit", 1024, http.StatusOK},
		{"over limit", 2048, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/test", strings.NewReader(strings.Repeat("a", tt.size)))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestBodyLimitMiddleware_NilBody(t *testing.T) {
	r := bodyLimitRouter(1024)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestIsBodyTooLarge(t *testing.T) {
	if IsBodyTooLarge(io.ErrUnexpectedEOF) {
		t.Error("unrelated error should not be reported as too large")
	}
	if !IsBodyTooLarge(&http.MaxBytesError{Limit: 1}) {
		t.Error("MaxBytesError should be reported as too large")
	}
}
