// Package middleware holds gin middleware specific to the ops HTTP surface.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gimvic/schedule-sync/internal/service"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
	"github.com/gimvic/schedule-sync/pkg/response"
)

// ContextClaimsKey is the gin context key storing JWT claims.
const ContextClaimsKey = "triggerClaims"

// JWT protects routes by requiring a valid trigger token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
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

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}
