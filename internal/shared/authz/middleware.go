package authz

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms_backend/internal/api"
)

// RoleFunc extracts the caller's role from the request, typically from token claims.
type RoleFunc func(c *gin.Context) string

// RequirePolicy aborts with 403 unless the caller's role satisfies policy.
// It must run after the middleware that authenticates the caller.
func RequirePolicy(e *Enforcer, policy Policy, roleOf RoleFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(roleOf(c))
		ok, err := e.Allowed(role, policy)
		if err != nil {
			slog.Error("authorization check failed", "error", err, "role", role, "policy", policy)
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.Fail[any]("internal server error"))
			return
		}
		if !ok {
			slog.Warn("authorization denied", "role", role, "policy", policy, "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, api.Fail[any]("forbidden"))
			return
		}
		c.Next()
	}
}
