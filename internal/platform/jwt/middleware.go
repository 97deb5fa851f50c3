package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hrms_backend/internal/api"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(token string) (*Claims, error)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// token's user id, email and role on the gin context.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail[any]("missing bearer token"))
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := parser.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail[any]("invalid token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but stores the claims of a valid
// bearer token like AuthRequired does. A token that fails to parse is rejected.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.Next()
			return
		}

		claims, err := parser.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail[any]("invalid token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleFrom returns the role stored by AuthRequired or OptionalAuth, or "".
func RoleFrom(c *gin.Context) string {
	return c.GetString(ContextRole)
}
