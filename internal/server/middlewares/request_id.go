package middlewares

import (
	"context"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestIDMiddleware reuses or assigns an X-Request-ID and carries it in
// both the gin context and the request context, where dashboard fetches pick
// it up for their logs.
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		} else {
			logger.Debug("Using client request ID", zap.String("request_id", requestID))
		}

		c.Header(RequestIDHeader, requestID)
		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), dashboard.RequestIDKey, requestID))

		c.Next()
	}
}
