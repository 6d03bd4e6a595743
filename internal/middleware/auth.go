package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fedauth/internal/domain"
	"fedauth/internal/service"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyEmail    = "email"
	ContextKeyClaims   = "claims"
)

// AuthMiddleware returns Gin middleware that validates access tokens and
// injects the user into the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "Unauthorized",
				"detail": "missing or invalid authorization header",
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "Unauthorized",
				"detail": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (int64, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, domain.ErrUnauthorized
	}
	id, ok := val.(int64)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}
