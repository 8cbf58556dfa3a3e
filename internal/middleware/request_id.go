package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// DeviceIDHeader selects which persisted session a request acts on.
const DeviceIDHeader = "X-Device-Id"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

func DeviceID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(DeviceIDHeader))
}

// RequireDevice rejects requests that do not say which device they act for.
func RequireDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		if DeviceID(c) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error_code": "missing_device_id"})
			return
		}
		c.Next()
	}
}
