package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grievance-api/internal/models"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
	"github.com/noah-isme/grievance-api/pkg/response"
)

// RBAC only lets sessions whose role name is in allowed through.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedRoles[a] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := SessionFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.RoleName]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "administrative role required"))
		c.Abort()
	}
}

// RequireAdmin admits the Admin and Grievance Officer roles.
func RequireAdmin() gin.HandlerFunc {
	return RBAC(models.AdminRoleNames...)
}
