package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"fbmanager/internal/ratelimit"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimit charges one attempt per request against the limiter, keyed by
// client IP. Blocked callers get 429 with a Retry-After hint. Limiter
// failures (e.g. redis down) let the request through rather than locking
// everyone out.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := limiter.Consume(c.Request.Context(), c.ClientIP())
		if err == nil {
			c.Next()
			return
		}

		var limited *ratelimit.RateLimitedError
		if errors.As(err, &limited) {
			seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.ErrorLocalized("too many attempts, try again later", "محاولات كثيرة، حاول لاحقاً"))
			return
		}

		c.Next()
	}
}
