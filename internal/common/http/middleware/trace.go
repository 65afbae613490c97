package middleware

import (
	"context"
	"strings"

	"qaboard/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	traceIDHeader   = "X-Trace-Id"
	requestIDHeader = "X-Request-Id"

	traceIDContextKey   = "trace_id"
	requestIDContextKey = "request_id"
)

// TraceContextMiddleware ensures trace/request id are in context and response headers.
// Incoming ids are kept.
func TraceContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := headerOrNew(c, traceIDHeader)
		c.Set(traceIDContextKey, traceID)
		ctx := context.WithValue(c.Request.Context(), contextkey.TraceID, traceID)
		c.Writer.Header().Set(traceIDHeader, traceID)

		requestID := headerOrNew(c, requestIDHeader)
		c.Set(requestIDContextKey, requestID)
		ctx = context.WithValue(ctx, contextkey.RequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func headerOrNew(c *gin.Context, name string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return uuid.NewString()
}
