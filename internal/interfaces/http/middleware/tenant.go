package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/logger"
	"github.com/fuelsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = logger.GinTenantIDKey
	ActorKey        = "actor"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantLookup loads a tenant to check its status
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// StationAssignments lists the stations a user is assigned to
type StationAssignments interface {
	ListStationIDs(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	Tenants     TenantLookup
	Assignments StationAssignments
	// Logger for middleware logging
	Logger *zap.Logger
}

// TenantMiddleware resolves the tenant of an authenticated request and
// stores the access.Actor in both the gin and the request context.
// Tenant users are pinned to the tenant of their token; a superadmin
// picks the tenant with the X-Tenant-ID header. Managers and attendants
// get their station assignments loaded.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		subject, err := claims.ToSubject()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		role := identity.Role(subject.Role)

		tenantID := subject.TenantID
		header := c.GetHeader(TenantHeaderKey)
		switch {
		case role == identity.RoleSuperAdmin:
			if header == "" {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "X-Tenant-ID header is required")
				return
			}
			if tenantID, err = uuid.Parse(header); err != nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid tenant ID format")
				return
			}
		case header != "" && header != tenantID.String():
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Tenant mismatch")
			return
		}

		ctx := c.Request.Context()
		tenant, err := cfg.Tenants.FindByID(ctx, tenantID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid or inactive tenant")
				return
			}
			log.Error("Failed to load tenant", zap.String("tenant_id", tenantID.String()), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
			return
		}
		if !tenant.IsActive() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Tenant is not active")
			return
		}

		actor := access.Actor{TenantID: tenantID, UserID: subject.UserID, Role: role}
		if !role.BypassesStationAccess() {
			ids, err := cfg.Assignments.ListStationIDs(ctx, tenantID, subject.UserID)
			if err != nil {
				log.Error("Failed to load station assignments", zap.String("user_id", subject.UserID.String()), zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
				return
			}
			if ids == nil {
				ids = []uuid.UUID{}
			}
			actor.StationIDs = ids
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Set(ActorKey, actor)
		ctx = access.WithActor(ctx, actor)
		ctx = logger.WithIdentity(ctx, tenantID.String(), "")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActor returns the actor set by TenantMiddleware
func GetActor(c *gin.Context) (access.Actor, bool) {
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(access.Actor); ok {
			return a, true
		}
	}
	return access.FromContext(c.Request.Context())
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}
