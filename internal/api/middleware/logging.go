package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"wattfeed/internal/logger"
)

// RequestLogger writes one structured line per request
func RequestLogger(log *logger.Log) gin.HandlerFunc {
	entry := log.WithComponent("api")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"client_ip": c.ClientIP(),
			"latency":   time.Since(start).String(),
		}
		e := entry.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			e.Error("Request failed")
		case status >= 400:
			e.Warn("Request rejected")
		default:
			e.Debug("Request served")
		}
	}
}
