package middleware

import (
	"net/http"
	"slices"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for the role guard
type RoleConfig struct {
	// Roles allowed through; a superadmin always passes
	Roles []identity.Role
	// Logger for denied requests
	Logger *zap.Logger
}

// RequireRole lets the request through only when the caller holds one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{Roles: roles})
}

// RequireRoleWithConfig creates a role guard with custom config
func RequireRoleWithConfig(cfg RoleConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		role := currentRole(c)
		if role == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if role == identity.RoleSuperAdmin || slices.Contains(cfg.Roles, role) {
			c.Next()
			return
		}
		handlePermissionDenied(c, log, role)
	}
}

// RequireSuperAdmin lets only platform administrators through
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleSuperAdmin)
}

// currentRole prefers the resolved actor and falls back to the token claims
func currentRole(c *gin.Context) identity.Role {
	if actor, ok := GetActor(c); ok {
		return actor.Role
	}
	if claims := GetJWTClaims(c); claims != nil {
		return identity.Role(claims.Role)
	}
	return ""
}

func handlePermissionDenied(c *gin.Context, log *zap.Logger, role identity.Role) {
	log.Warn("Role denied",
		zap.String("role", string(role)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have permission to perform this action")
}
