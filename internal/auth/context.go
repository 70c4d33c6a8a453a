package auth

import "github.com/gin-gonic/gin"

// Gin context keys set by AuthRequired.
const (
	ctxUserIDKey    = "userID"
	ctxUserEmailKey = "userEmail"
)

// GetUserID returns the authenticated user's ID, or "" when the request
// carries no valid session.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(ctxUserIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserEmail returns the authenticated user's email, or "" when the
// request carries no valid session.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get(ctxUserEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
