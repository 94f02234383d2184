package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Deprecated annotates responses of a legacy route with Deprecation and successor Link headers.
func Deprecated(successor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Deprecation", "true")
		if successor != "" {
			c.Writer.Header().Set("Link", fmt.Sprintf("<%s>; rel=\"successor-version\"", successor))
		}
		c.Next()
	}
}
