package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"bookmarket-backend/internal/shared/response"
	"bookmarket-backend/pkg/identity"
)

// ContextKeyEmail is the gin context key holding the bound identity: the
// email verified from the bearer credential. It is the only trusted source
// of "who is calling"; handlers must never trust a client-supplied email
// without comparing it against this value.
const ContextKeyEmail = "authEmail"

// Auth extracts the bearer credential, verifies it, and binds the verified
// email to the request context.
func Auth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		email, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired credential")
			c.Abort()
			return
		}

		c.Set(ContextKeyEmail, email)
		c.Next()
	}
}

// BoundEmail returns the verified email bound by Auth, or "" when the route
// ran without the auth middleware.
func BoundEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}
