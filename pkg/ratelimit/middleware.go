package ratelimit

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "relay/pkg/errors"
	"relay/pkg/metrics"
)

const ReasonExceeded = "rate_limit_exceeded"

// Middleware rejects requests the limiter refuses with 429 and a Retry-After
// header. name labels the limiter in metrics.
func Middleware(name string, limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.RemoteIP()
		}

		d := limiter.Allow(clientIP)
		metrics.IncRateLimit(name, d.Allowed)

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			err := apperrors.ErrRateLimited.
				WithReason(ReasonExceeded).
				WithMessage("Too many requests, please try again later")
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), apperrors.ToErrorResponse(err))
			return
		}

		c.Next()
	}
}
