package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
)

// RequestID assigns each request an ID and builds the request-scoped logger
// that the rest of the chain reads through the request context. The ID is
// echoed back in the response header so callers can correlate.
func RequestID(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx, log := logger.WithRequestID(c.Request.Context(), base, requestID)
		if userID := c.GetHeader(headerUserID); userID != "" {
			ctx, _ = logger.WithUserID(ctx, log, userID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Next()
	}
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}
