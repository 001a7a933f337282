package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// redactedParams are query parameters whose values never reach the log.
var redactedParams = map[string]struct{}{
	"license": {},
	"blob":    {},
	"key":     {},
	"token":   {},
}

// redactQuery masks the values of redacted parameters while keeping the
// original parameter order. Pairs that cannot be unescaped are masked whole.
func redactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	pairs := strings.Split(rawQuery, "&")
	for i, pair := range pairs {
		name, _, hasValue := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			return "[UNPARSEABLE]"
		}
		if _, ok := redactedParams[strings.ToLower(decoded)]; ok && hasValue {
			pairs[i] = name + "=[REDACTED]"
		}
	}
	return strings.Join(pairs, "&")
}

// requestID returns the caller's request ID when it is a UUID, or a fresh one.
func requestID(c *gin.Context) string {
	if id, err := uuid.Parse(c.GetHeader(RequestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func levelFor(log zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	default:
		return log.Info()
	}
}

// RequestLogger tags each request with an ID and logs one line per request.
// Request bodies are never logged, so license inputs and blobs stay out of
// the log stream.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		id := requestID(c)
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		event := levelFor(log, status).
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Str("query", redactQuery(c.Request.URL.RawQuery)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size())
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("request")
	}
}
