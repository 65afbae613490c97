package middleware

import (
	"strconv"
	"time"

	"qaboard/internal/common/metrics"
	"qaboard/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every completed request and, when m is non-nil, records it in Prometheus.
func RequestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if m != nil {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()
		}
		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		path := route
		if path == "" {
			path = c.Request.URL.Path
			route = "unmatched"
		}
		status := c.Writer.Status()
		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		if m != nil {
			m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency)
		}
	}
}
