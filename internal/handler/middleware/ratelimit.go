package middleware

import (
	"errors"
	"net/http"
	"time"

	"payment-reconciler/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

// RateLimit caps a route group at perMinute requests with a burst of a tenth of that.
// The bucket is shared: webhook traffic arrives from a pool of gateway addresses.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			httperr.AbortRetryable(c, http.StatusTooManyRequests, errRateLimited, "Rate limit exceeded")
			return
		}
		c.Next()
	}
}
