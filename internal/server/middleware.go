package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smokyabdulrahman/salah/internal/log"
)

// requestLogger logs each request through the application logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.String())
		}
		if status >= 500 {
			log.Errorw("request", kv...)
			return
		}
		log.Debugw("request", kv...)
	}
}
