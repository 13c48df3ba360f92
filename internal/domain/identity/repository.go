package identity

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanRepository persists subscription plans
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByName(ctx context.Context, name string) (*Plan, error)
	FindAll(ctx context.Context) ([]Plan, error)
	Save(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountTenants counts non-deleted tenants subscribed to the plan
	CountTenants(ctx context.Context, planID uuid.UUID) (int64, error)
}

// TenantFilter narrows tenant listings
type TenantFilter struct {
	shared.Filter
	Status TenantStatus
}

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// LockByID loads the tenant row with an exclusive row lock held until
	// the surrounding transaction ends. Plan guards serialize on this lock.
	LockByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByName(ctx context.Context, name string) (*Tenant, error)
	FindAll(ctx context.Context, filter TenantFilter) ([]Tenant, int64, error)
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	// CountByStatus counts tenants per status, deleted ones included
	CountByStatus(ctx context.Context) (map[TenantStatus]int64, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository persists tenant users and their station assignments
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	// FindTenantIDsByEmail lists the non-deleted tenants that have a user
	// with this email; login uses it when no tenant is given
	FindTenantIDsByEmail(ctx context.Context, email string) ([]uuid.UUID, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// ReplaceStations sets the stations a user is assigned to
	ReplaceStations(ctx context.Context, tenantID, userID uuid.UUID, stationIDs []uuid.UUID) error
	ListStationIDs(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)
	HasStationAccess(ctx context.Context, tenantID, userID, stationID uuid.UUID) (bool, error)
}

// AdminUserRepository persists superadmin accounts
type AdminUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	FindAll(ctx context.Context) ([]AdminUser, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, admin *AdminUser) error
	Delete(ctx context.Context, id uuid.UUID) error
}
