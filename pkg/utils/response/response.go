package response

import (
	"net/http"

	"qaboard/pkg/errors"
	"qaboard/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response represents a standard API response
type Response struct {
	Code    errors.ErrorCode `json:"code"`               // Error code
	Message string           `json:"message"`            // Error message
	Data    interface{}      `json:"data,omitempty"`     // Response data (omit if nil)
	Details interface{}      `json:"details,omitempty"`  // Additional details (omit if nil)
	TraceID string           `json:"trace_id,omitempty"` // Request trace ID
}

// Success sends a successful response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.Success,
		Message: "Success",
		Data:    data,
		TraceID: getTraceID(c),
	})
}

// Created sends a 201 response for a newly opened resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    errors.Success,
		Message: "Created",
		Data:    data,
		TraceID: getTraceID(c),
	})
}

// Error sends an error response
// It automatically extracts error code and message from the error
func Error(c *gin.Context, err error) {
	customErr := errors.GetError(err)
	status := customErr.Code.HTTPStatus()

	fields := []zap.Field{
		zap.Int("code", int(customErr.Code)),
		zap.String("message", customErr.Error()),
		zap.Any("details", customErr.Details),
	}
	// Only 5xx responses log at error level with a stack.
	if status >= http.StatusInternalServerError {
		fields = append(fields, zap.String("stack", customErr.Stack))
		logger.Error(c.Request.Context(), "request error", fields...)
	} else {
		logger.Warn(c.Request.Context(), "request rejected", fields...)
	}

	var details interface{}
	if len(customErr.Details) > 0 {
		details = customErr.Details
	}
	c.JSON(status, Response{
		Code:    customErr.Code,
		Message: customErr.Error(),
		Details: details,
		TraceID: getTraceID(c),
	})
}

// ErrorWithCode sends an error response with specific error code
func ErrorWithCode(c *gin.Context, code errors.ErrorCode, message string) {
	if message == "" {
		message = code.Message()
	}

	logger.Warn(c.Request.Context(), "request rejected",
		zap.Int("code", int(code)),
		zap.String("message", message),
	)

	c.JSON(code.HTTPStatus(), Response{
		Code:    code,
		Message: message,
		TraceID: getTraceID(c),
	})
}

// NotImplemented sends a 501 for placeholder routes.
func NotImplemented(c *gin.Context, message string) {
	ErrorWithCode(c, errors.NotImplemented, message)
}

// getTraceID extracts trace ID from context
func getTraceID(c *gin.Context) string {
	if traceID, exists := c.Get("trace_id"); exists {
		if s, ok := traceID.(string); ok {
			return s
		}
	}
	return ""
}

// AbortWithError aborts the request and sends error response
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
