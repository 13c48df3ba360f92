package identity

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanDTO is the API representation of a plan
type PlanDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	MaxStations        int             `json:"max_stations"`
	MaxPumpsPerStation int             `json:"max_pumps_per_station"`
	MaxNozzlesPerPump  int             `json:"max_nozzles_per_pump"`
	PriceMonthly       decimal.Decimal `json:"price_monthly"`
	PriceYearly        decimal.Decimal `json:"price_yearly"`
	Features           []string        `json:"features"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToPlanDTO converts a domain plan
func ToPlanDTO(p *identity.Plan) PlanDTO {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PlanDTO{
		ID:                 p.ID,
		Name:               p.Name,
		MaxStations:        p.MaxStations,
		MaxPumpsPerStation: p.MaxPumpsPerStation,
		MaxNozzlesPerPump:  p.MaxNozzlesPerPump,
		PriceMonthly:       p.PriceMonthly,
		PriceYearly:        p.PriceYearly,
		Features:           features,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// CreatePlanInput carries a new plan; zero limits take the configured defaults
type CreatePlanInput struct {
	Name               string
	MaxStations        int
	MaxPumpsPerStation int
	MaxNozzlesPerPump  int
	PriceMonthly       decimal.Decimal
	PriceYearly        decimal.Decimal
	Features           []string
}

// TenantDTO is the API representation of a tenant
type TenantDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PlanID       uuid.UUID `json:"plan_id"`
	PlanName     string    `json:"plan_name,omitempty"`
	Status       string    `json:"status"`
	UserCount    *int64    `json:"user_count,omitempty"`
	StationCount *int64    `json:"station_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToTenantDTO converts a domain tenant
func ToTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{
		ID:        t.ID,
		Name:      t.Name,
		PlanID:    t.PlanID,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// CreateTenantInput provisions a tenant. Owner fields are optional; the
// owner email defaults to owner@<slug>.fuelsync.com and passwords are
// generated when empty.
type CreateTenantInput struct {
	Name          string
	PlanID        uuid.UUID
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
}

// ProvisionedUser is a user created with a tenant, with its initial password
type ProvisionedUser struct {
	UserDTO
	Password string `json:"password"`
}

// CreateTenantResult is the tenant with its provisioned users
type CreateTenantResult struct {
	Tenant TenantDTO         `json:"tenant"`
	Users  []ProvisionedUser `json:"users"`
}

// UpdateTenantInput is a partial tenant update
type UpdateTenantInput struct {
	Name   *string
	PlanID *uuid.UUID
}

// UserDTO is the API representation of a tenant user or admin
type UserDTO struct {
	ID         uuid.UUID   `json:"id"`
	TenantID   *uuid.UUID  `json:"tenant_id,omitempty"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       string      `json:"role"`
	StationIDs []uuid.UUID `json:"station_ids,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ToUserDTO converts a tenant user
func ToUserDTO(u *identity.User) UserDTO {
	tenantID := u.TenantID
	return UserDTO{
		ID:        u.ID,
		TenantID:  &tenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToAdminDTO converts an admin account
func ToAdminDTO(a *identity.AdminUser) UserDTO {
	return UserDTO{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(identity.RoleSuperAdmin),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// CreateUserInput carries a new tenant user
type CreateUserInput struct {
	Email      string
	Name       string
	Role       identity.Role
	Password   string
	StationIDs []uuid.UUID
}

// UpdateUserInput changes profile fields; empty values are left unchanged
type UpdateUserInput struct {
	Name  string
	Email string
	Role  identity.Role
}

// CreateAdminInput carries a new superadmin account
type CreateAdminInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateAdminInput changes admin fields; empty values are left unchanged
type UpdateAdminInput struct {
	Email    string
	Name     string
	Password string
}

// PlatformMetrics counts the platform's tenants, plans and admins
type PlatformMetrics struct {
	TenantCount          int64 `json:"tenant_count"`
	ActiveTenantCount    int64 `json:"active_tenant_count"`
	SuspendedTenantCount int64 `json:"suspended_tenant_count"`
	PlanCount            int64 `json:"plan_count"`
	AdminCount           int64 `json:"admin_count"`
}

// LoginInput is an email/password login. TenantID selects the tenant when
// the same email exists in several tenants.
type LoginInput struct {
	Email    string
	Password string
	TenantID *uuid.UUID
}

// LoginResult is the issued token pair and the authenticated user
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user
type UserInfo struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
	TenantName string     `json:"tenant_name,omitempty"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
}
