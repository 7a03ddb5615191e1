package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DevAuth trusts X-User-Id, X-User-Email and X-User-Admin headers instead of
// verifying a token. Requests without X-User-Id act as "demo-user".
// Use this ONLY for local development without Firebase credentials.
func DevAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		c.Set(CtxFirebaseUID, uid)
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}
		c.Set(CtxIsAdmin, c.GetHeader("X-User-Admin") == "true")

		c.Next()
	}
}
