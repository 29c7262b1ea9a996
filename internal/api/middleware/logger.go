package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one "[api] ..." line per request, the same prefixed-message
// style used throughout the rest of the service (no structured logging
// library appears anywhere in the retrieval pack).
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[api] %s %s -> %d (%s)", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
