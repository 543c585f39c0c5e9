package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAuthorizer answers whether a subject currently holds one of a set of
// roles. It is backed by the role store, so assignments and removals take
// effect on the next request rather than on the next login.
type RoleAuthorizer interface {
	CheckAccess(ctx context.Context, userID uuid.UUID, requiredRoles ...string) (bool, error)
}

// RequireRoles allows the request through when the authenticated subject
// holds at least one of the named roles. An empty list means any
// authenticated subject. Requests that never passed Auth abort with 401.
func RequireRoles(authz RoleAuthorizer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserID)
		if !exists {
			abortUnauthorized(c, "authentication required")
			return
		}
		userID, ok := value.(uuid.UUID)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}

		allowed, err := authz.CheckAccess(c.Request.Context(), userID, roles...)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
