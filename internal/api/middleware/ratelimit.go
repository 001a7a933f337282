package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter creates a Gin middleware that allows requests per period
// for each client IP. A zero requests value disables limiting.
func NewRateLimiter(requests int64, period time.Duration) (gin.HandlerFunc, error) {
	if requests == 0 {
		return func(c *gin.Context) { c.Next() }, nil
	}
	if requests < 0 {
		return nil, errors.New("rate limit requests must not be negative")
	}
	if period <= 0 {
		return nil, errors.New("rate limit period must be positive")
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  requests,
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate)

	middleware := mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	}))
	return middleware, nil
}
