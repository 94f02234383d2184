package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

// ContextStaffKey is the gin context key storing staff claims.
const ContextStaffKey = "currentStaff"

// TokenValidator verifies bearer tokens and returns staff claims.
type TokenValidator interface {
	ValidateToken(token string) (*models.StaffClaims, error)
}

// JWT protects routes by requiring a valid staff access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextStaffKey, claims)
		c.Next()
	}
}

// StaffFromContext returns the claims set by JWT.
func StaffFromContext(c *gin.Context) (*models.StaffClaims, bool) {
	v, ok := c.Get(ContextStaffKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.StaffClaims)
	return claims, ok
}
