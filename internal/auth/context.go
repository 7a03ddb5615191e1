package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/middleware"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by FirebaseAuthMiddleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(middleware.CtxFirebaseUID))
}

// IsAdmin reports the admin claim of the authenticated request.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(middleware.CtxIsAdmin)
}
