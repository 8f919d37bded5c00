package middleware

import (
	"github.com/gin-gonic/gin"

	"bookmarket-backend/internal/shared/authz"
	"bookmarket-backend/internal/shared/response"
)

// RequireCapability gates a route group on the authz policy. Must run after
// Auth so the bound email is present.
func RequireCapability(policy *authz.Policy, cap authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := BoundEmail(c)
		if email == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		if err := policy.Allow(c.Request.Context(), email, cap); err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
