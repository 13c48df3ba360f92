// Package tenant provides tenant scoping helpers for GORM queries.
//
// Every tenant-owned table of the shared schema carries a tenant_id column.
// Repositories apply these scopes on each query so that rows of other tenants
// are never read or written.
//
// Usage:
//
//	db.Scopes(tenant.Scope(tenantID)).Find(&stations)
//	db.Scopes(tenant.ScopeTable("s", tenantID)).Table("sales s")...
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a tenant-scoped query has no tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope applies tenant filtering to GORM queries
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return ScopeTable("", tenantID)
}

// ScopeTable applies tenant filtering on a qualified table alias
func ScopeTable(alias string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	column := "tenant_id"
	if alias != "" {
		column = alias + ".tenant_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(column+" = ?", tenantID)
	}
}
