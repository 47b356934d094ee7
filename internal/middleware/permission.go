package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

const ContextPermissionsKey = "permissions"

type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, userID uint64) (*service.Permissions, error)
}

// RequirePermission must run after AuthMiddleware. The resolved permissions
// are kept on the context for handlers.
func RequirePermission(roles PermissionResolver, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint64(ContextUserIDKey)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		p, err := roles.ResolvePermissions(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		}
		if !p.Has(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "missing permission " + perm})
			return
		}
		c.Set(ContextPermissionsKey, p)
		c.Next()
	}
}
