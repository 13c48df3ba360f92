package handler

import (
	"github.com/shopspring/decimal"
)

// CreatePlanRequest represents a subscription plan creation request
// @Description Plan creation request; zero limits take the configured defaults
type CreatePlanRequest struct {
	Name               string          `json:"name" binding:"required,min=1,max=100" example:"Pro"`
	MaxStations        int             `json:"max_stations" binding:"omitempty,min=1" example:"5"`
	MaxPumpsPerStation int             `json:"max_pumps_per_station" binding:"omitempty,min=1" example:"8"`
	MaxNozzlesPerPump  int             `json:"max_nozzles_per_pump" binding:"omitempty,min=1" example:"4"`
	PriceMonthly       decimal.Decimal `json:"price_monthly" swaggertype:"string" example:"999.00"`
	PriceYearly        decimal.Decimal `json:"price_yearly" swaggertype:"string" example:"9999.00"`
	Features           []string        `json:"features"`
}

// UpdatePlanRequest represents a partial plan update
// @Description Plan update request
type UpdatePlanRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=1,max=100"`
	MaxStations        *int             `json:"max_stations" binding:"omitempty,min=1"`
	MaxPumpsPerStation *int             `json:"max_pumps_per_station" binding:"omitempty,min=1"`
	MaxNozzlesPerPump  *int             `json:"max_nozzles_per_pump" binding:"omitempty,min=1"`
	PriceMonthly       *decimal.Decimal `json:"price_monthly" swaggertype:"string"`
	PriceYearly        *decimal.Decimal `json:"price_yearly" swaggertype:"string"`
	Features           []string         `json:"features"`
}

// CreateTenantRequest represents a tenant onboarding request
// @Description Tenant creation request; owner, manager and attendant accounts are provisioned
type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200" example:"Sunrise Fuels"`
	PlanID        string `json:"plan_id" binding:"required,uuid"`
	OwnerName     string `json:"owner_name" binding:"omitempty,max=100"`
	OwnerEmail    string `json:"owner_email" binding:"omitempty,email"`
	OwnerPassword string `json:"owner_password" binding:"omitempty,min=6"`
}

// UpdateTenantRequest represents a partial tenant update
// @Description Tenant update request
type UpdateTenantRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=200"`
	PlanID *string `json:"plan_id" binding:"omitempty,uuid"`
}

// UpdateTenantStatusRequest changes the lifecycle status of a tenant
// @Description Tenant status change
type UpdateTenantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended cancelled deleted"`
}

// TenantListQuery filters the tenant list
type TenantListQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=active suspended cancelled deleted"`
}

// CreateAdminRequest represents a superadmin account creation
// @Description Admin user creation request
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateAdminRequest changes an admin account; empty fields are kept
// @Description Admin user update request
type UpdateAdminRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Name     string `json:"name" binding:"omitempty,min=1,max=100"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// AdminPasswordRequest sets a new admin password
// @Description Admin password reset request
type AdminPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}
