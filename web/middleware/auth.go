// Package middleware provides gin middleware for the eco-ui API.
package middleware

import (
	"net/http"
	"strings"

	"eco-ui/web/service"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key under which TokenAuth stores the
// authenticated *model.User.
const ContextUserKey = "user"

// ExtractToken reads the bearer token from the X-Api-Token header, falling
// back to Authorization: Bearer. Empty string if neither is present.
func ExtractToken(c *gin.Context) string {
	token := c.GetHeader("X-Api-Token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

// TokenAuth resolves the bearer token and stores the owning user in the
// context. Requests without a valid token are rejected with 401.
func TokenAuth(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API token is required"})
			return
		}

		user, err := users.GetUserFromToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API token"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests whose authenticated user lacks the admin
// flag. Must run after TokenAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}
