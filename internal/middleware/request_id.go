package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venture-chat/internal/observability"
)

const RequestIDKey = "request_id"

// RequestID propagates X-Request-Id, generating one when absent, onto the
// gin context, the request context and the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := observability.RequestIDFromRequest(c.Request)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), requestID))
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}
