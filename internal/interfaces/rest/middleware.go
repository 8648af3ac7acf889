package restinterface

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const slowRequestThreshold = 2 * time.Second

// requestLogger logs at debug level every request, failed and slow ones
// are reported at higher levels.
func requestLogger(threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.Now()

		c.Next()

		latency := time.Since(t)
		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"path":     c.Request.URL.Path,
			"method":   c.Request.Method,
			"status":   status,
			"duration": latency,
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Warn("api request failed")
		case latency > threshold:
			entry.Info("slow api request")
		default:
			entry.Debug("api request")
		}
	}
}
