package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// cspAPI is a strict Content-Security-Policy for JSON and text responses.
const cspAPI = "default-src 'none'; frame-ancestors 'none'"

// cspDocs allows the self-hosted Swagger UI under DocsPathPrefix.
const cspDocs = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"

// DocsPathPrefix is where the API documentation is served.
const DocsPathPrefix = "/api/docs/"

// SecurityHeaders returns a middleware that sets security-related HTTP response headers.
// License blobs must never be cached by intermediaries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		if strings.HasPrefix(c.Request.URL.Path, DocsPathPrefix) {
			c.Header("Content-Security-Policy", cspDocs)
		} else {
			c.Header("Content-Security-Policy", cspAPI)
		}
		c.Header("Cache-Control", "no-store")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
