package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	ctxUserID    = "user_id"
	ctxUserRole  = "user_role"
	ctxUserEmail = "user_email"
)

// RequireAuth validates the access token from the httpOnly cookie (or an
// Authorization bearer header for non-browser clients) and attaches the
// identity to the request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenString == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxUserEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ctxUserRole); role != string(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func UserEmail(c *gin.Context) string {
	v, _ := c.Get(ctxUserEmail)
	email, _ := v.(string)
	return email
}

func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ctxUserRole)
	return role == string(models.RoleAdmin)
}
