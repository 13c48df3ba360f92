package identity

import (
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
	TenantStatusDeleted   TenantStatus = "deleted"
)

// IsValid reports whether s is a known tenant status
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusCancelled, TenantStatusDeleted:
		return true
	}
	return false
}

// Tenant is a customer organisation operating one or more fuel stations
type Tenant struct {
	shared.BaseEntity
	Name   string
	PlanID uuid.UUID
	Status TenantStatus
}

// NewTenant creates an active tenant subscribed to planID
func NewTenant(name string, planID uuid.UUID) (*Tenant, error) {
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	if planID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Plan is required")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		PlanID:     planID,
		Status:     TenantStatusActive,
	}, nil
}

// Rename changes the tenant's display name
func (t *Tenant) Rename(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.Touch()
	return nil
}

// ChangePlan moves the tenant to another plan
func (t *Tenant) ChangePlan(planID uuid.UUID) error {
	if planID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Plan is required")
	}
	t.PlanID = planID
	t.Touch()
	return nil
}

// SetStatus transitions the tenant status. Deleted tenants cannot be revived.
func (t *Tenant) SetStatus(status TenantStatus) error {
	if !status.IsValid() {
		return shared.Errorf(shared.CodeInvalidInput, "Invalid tenant status: %s", status)
	}
	if t.Status == TenantStatusDeleted && status != TenantStatusDeleted {
		return shared.NewDomainError(shared.CodeInvalidState, "Deleted tenant cannot be reactivated")
	}
	t.Status = status
	t.Touch()
	return nil
}

// IsActive reports whether tenant users may sign in
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Slug returns a lowercase dash-separated form of the tenant name
func (t *Tenant) Slug() string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(t.Name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Tenant name cannot exceed 200 characters")
	}
	return nil
}
