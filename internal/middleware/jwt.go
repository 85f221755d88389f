package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachdesk/backend/internal/auth"
	"github.com/coachdesk/backend/pkg/response"
)

const (
	// ContextInstituteID is the key for the authenticated institute ID in gin context.
	ContextInstituteID = "institute_id"
	// ContextAdminEmail is the key for the authenticated admin email in gin context.
	ContextAdminEmail = "admin_email"
)

// JWT returns a middleware that validates a Bearer token and sets the
// institute claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextInstituteID, claims.InstituteID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Next()
	}
}
