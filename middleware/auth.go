package middleware

import (
	"net/http"
	"strings"

	"github.com/euduvido/challenge_backend/utils"
	"github.com/gin-gonic/gin"
)

// JWTAuth extracts the authenticated user id from the Authorization header
// and puts it in the context as "userID". Token issuance belongs to the auth
// service; this only verifies and reads.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be in the format 'Bearer {token}'"})
			c.Abort()
			return
		}

		userID, err := utils.ParseToken(parts[1])
		if err != nil || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
