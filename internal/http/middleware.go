package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/clippings/internal/logger"
)

const (
	HeaderRequestID     = "X-Request-ID"
	ContextKeyRequestID = "request_id"
	contextKeyLogger    = "logger"
)

// maxRequestIDLength caps client-supplied request ids.
const maxRequestIDLength = 128

// RequestIDMiddleware propagates X-Request-ID, generating one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestLoggerMiddleware attaches a logger tagged with the request id to both
// the gin context and the request context.
func RequestLoggerMiddleware(base logger.Logger) gin.HandlerFunc {
	if base == nil {
		base = logger.NewNop()
	}
	return func(c *gin.Context) {
		reqLog := base.With(
			logger.String("request_id", c.GetString(ContextKeyRequestID)),
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
		)
		c.Set(contextKeyLogger, reqLog)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()
	}
}

// requestLogger returns the request-scoped logger, or a no-op logger.
func requestLogger(c *gin.Context) logger.Logger {
	if l, ok := c.Get(contextKeyLogger); ok {
		if typed, ok := l.(logger.Logger); ok {
			return typed
		}
	}
	return logger.FromContext(c.Request.Context())
}
