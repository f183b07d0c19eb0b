package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AccessKeyHeader = "X-Access-Key"

// AccessKeyMiddleware rejects requests that do not carry the configured key,
// either in the X-Access-Key header or the "key" query parameter (websocket
// clients in the browser cannot set headers). An empty key disables the check.
func AccessKeyMiddleware(accessKey string) gin.HandlerFunc {
	if accessKey == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		clientKey := c.GetHeader(AccessKeyHeader)
		if clientKey == "" {
			clientKey = c.Query("key")
		}

		if subtle.ConstantTimeCompare([]byte(clientKey), []byte(accessKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid access key"})
			return
		}
		c.Next()
	}
}
