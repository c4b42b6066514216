package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/redis"
	"nearmeet-server/internal/utils"
)

// ContextUserID is the gin context key carrying the authenticated user id.
const ContextUserID = "user_id"

// AuthRequired validates the bearer token and rejects tokens blacklisted by
// logout. Everything behind it can rely on an already-resolved identity; the
// core never mints its own.
func AuthRequired(cfg *config.Config, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		userID, err := utils.ParseToken(tokenString, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if cache != nil {
			if n, err := cache.Exists(c.Request.Context(), "token:blacklist:"+tokenString); err == nil && n > 0 {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user id from the context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
