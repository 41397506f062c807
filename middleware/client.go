package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// clientKey identifies the caller for rate limiting and request logs.
// Forwarded headers only count when the engine trusts the hop they came
// from (TRUSTED_PROXIES), so a scanner cannot pick its own bucket.
func clientKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// requestLogger returns the logger RequestLogger stored for this request.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
