package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/internal/logging"
	"rideshare/internal/metrics"
	"rideshare/pkg/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id (taken from X-Request-ID when the client
// sent one), logs each request when it completes and records its latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		event := logging.Ctx(c.Request.Context()).Info()
		if status >= 500 {
			event = logging.Ctx(c.Request.Context()).Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Str("client_ip", c.ClientIP()).
			Str("user_id", GetUserID(c)).
			Msg("request")
	}
}
