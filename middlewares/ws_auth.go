// middlewares/ws_auth.go
package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware reads the JWT from ?token= or the Authorization header;
// browsers cannot set headers on a WebSocket handshake.
func WSAuthMiddleware(secret string, users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			h := c.GetHeader("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token"})
			return
		}
		if !authenticate(c, tokenStr, secret, users) {
			return
		}
		c.Next()
	}
}
