package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/ratelimit"
)

// RateLimit enforces limiter per client address and sets the standard RateLimit headers.
// A breach answers 429 with the limiter message as plain text.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.Request.Context(), c.ClientIP())

		reset := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
		if reset < 0 {
			reset = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(reset))

		if decision.Allowed {
			c.Next()
			return
		}

		if m != nil {
			m.RateLimited.WithLabelValues(limiter.Name).Inc()
		}
		c.Header("Retry-After", strconv.Itoa(reset))
		c.Abort()
		c.String(http.StatusTooManyRequests, limiter.Message)
	}
}
