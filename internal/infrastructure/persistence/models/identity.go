package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanModel is the persistence model for subscription plans
type PlanModel struct {
	BaseModel
	Name               string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	MaxStations        int             `gorm:"not null;default:5"`
	MaxPumpsPerStation int             `gorm:"not null;default:10"`
	MaxNozzlesPerPump  int             `gorm:"not null;default:4"`
	PriceMonthly       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PriceYearly        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Features           []string        `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan
func (m *PlanModel) ToDomain() *identity.Plan {
	features := m.Features
	if features == nil {
		features = []string{}
	}
	return &identity.Plan{
		BaseEntity:         m.BaseModel.ToDomain(),
		Name:               m.Name,
		MaxStations:        m.MaxStations,
		MaxPumpsPerStation: m.MaxPumpsPerStation,
		MaxNozzlesPerPump:  m.MaxNozzlesPerPump,
		PriceMonthly:       m.PriceMonthly,
		PriceYearly:        m.PriceYearly,
		Features:           features,
	}
}

// PlanModelFromDomain creates a persistence model from a domain Plan
func PlanModelFromDomain(p *identity.Plan) *PlanModel {
	m := &PlanModel{
		Name:               p.Name,
		MaxStations:        p.MaxStations,
		MaxPumpsPerStation: p.MaxPumpsPerStation,
		MaxNozzlesPerPump:  p.MaxNozzlesPerPump,
		PriceMonthly:       p.PriceMonthly,
		PriceYearly:        p.PriceYearly,
		Features:           p.Features,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// TenantRecord is the persistence model for tenants
type TenantRecord struct {
	BaseModel
	Name   string                `gorm:"type:varchar(200);not null"`
	PlanID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (TenantRecord) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantRecord) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		PlanID:     m.PlanID,
		Status:     m.Status,
	}
}

// TenantRecordFromDomain creates a persistence model from a domain Tenant
func TenantRecordFromDomain(t *identity.Tenant) *TenantRecord {
	m := &TenantRecord{Name: t.Name, PlanID: t.PlanID, Status: t.Status}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// UserModel is the persistence model for tenant users
type UserModel struct {
	TenantModel
	Email        string        `gorm:"type:varchar(200);not null;index"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantEntity: m.ToTenantEntity(),
		Email:        m.Email,
		Name:         m.Name,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{Email: u.Email, Name: u.Name, Role: u.Role, PasswordHash: u.PasswordHash}
	m.FromTenantEntity(u.TenantEntity)
	return m
}

// AdminUserModel is the persistence model for superadmin accounts
type AdminUserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'superadmin'"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the persistence model to a domain AdminUser
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
	}
}

// AdminUserModelFromDomain creates a persistence model from a domain AdminUser
func AdminUserModelFromDomain(a *identity.AdminUser) *AdminUserModel {
	m := &AdminUserModel{
		Email:        a.Email,
		Name:         a.Name,
		Role:         string(identity.RoleSuperAdmin),
		PasswordHash: a.PasswordHash,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// UserStationModel is the user_stations join table
type UserStationModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	StationID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserStationModel) TableName() string {
	return "user_stations"
}
