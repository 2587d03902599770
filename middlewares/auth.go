package middlewares

import (
	"context"
	"net/http"
	"strings"

	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

// UserSyncer records the identity carried by a verified token.
type UserSyncer interface {
	Sync(ctx context.Context, id uint, name, role string) error
}

// OptionalAuth resolves the caller when a Bearer token is sent. No token means
// anonymous; a bad token is rejected.
func OptionalAuth(secret string, users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if !authenticate(c, tokenStr, secret, users) {
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid token and, when roles are given, one of them.
func AuthMiddleware(secret string, users UserSyncer, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, present := bearerToken(c)
		if !present || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			return
		}
		if !authenticate(c, tokenStr, secret, users) {
			return
		}

		if len(requiredRoles) > 0 {
			role := utils.CurrentRole(c)
			allowed := false
			for _, r := range requiredRoles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				return
			}
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return "", true
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), true
}

func authenticate(c *gin.Context, tokenStr, secret string, users UserSyncer) bool {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
		return false
	}

	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)

	if users != nil {
		// a failed mirror write must not fail the request; the logger reports it
		if err := users.Sync(c.Request.Context(), claims.UserID, claims.Name, claims.Role); err != nil {
			_ = c.Error(err)
		}
	}
	return true
}
