package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homechat/backend/internal/auth"
	"homechat/backend/internal/models"
)

// RequireAuth admits only requests that carry a valid credential for an
// active account. The full user record lands in the context for handlers.
func RequireAuth(secret string, users auth.UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request, secret, users)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get("user")
	return v.(*models.User)
}
