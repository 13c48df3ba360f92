// Package access describes who is calling an application service and which
// stations they may act on.
package access

import (
	"context"
	"slices"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrStationForbidden is returned when the caller is not assigned to a station
var ErrStationForbidden = shared.NewDomainError(shared.CodeForbidden, "You do not have access to this station")

// Actor is the authenticated caller. StationIDs is nil for roles that see
// every station of the tenant, and the assigned stations otherwise.
type Actor struct {
	TenantID   uuid.UUID
	UserID     uuid.UUID
	Role       identity.Role
	StationIDs []uuid.UUID
}

// System is the actor used by scheduled jobs and CLI commands
func System(tenantID uuid.UUID) Actor {
	return Actor{TenantID: tenantID, Role: identity.RoleOwner}
}

// Restricted reports whether the actor is limited to assigned stations
func (a Actor) Restricted() bool {
	return a.StationIDs != nil
}

// CanAccess reports whether the actor may act on stationID
func (a Actor) CanAccess(stationID uuid.UUID) bool {
	return !a.Restricted() || slices.Contains(a.StationIDs, stationID)
}

// CheckStation returns ErrStationForbidden unless the actor may act on stationID
func (a Actor) CheckStation(stationID uuid.UUID) error {
	if a.CanAccess(stationID) {
		return nil
	}
	return ErrStationForbidden
}

// StationScope returns the station filter for list queries; nil means unrestricted.
// A restricted actor without assignments gets a non-nil empty slice.
func (a Actor) StationScope() []uuid.UUID {
	if !a.Restricted() {
		return nil
	}
	if len(a.StationIDs) == 0 {
		return []uuid.UUID{}
	}
	return a.StationIDs
}

// UserRef returns a pointer to the user ID for created_by columns, nil for system actors
func (a Actor) UserRef() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

// HasRole reports whether the actor holds one of roles
func (a Actor) HasRole(roles ...identity.Role) bool {
	return slices.Contains(roles, a.Role)
}

type actorKey struct{}

// WithActor stores the actor in ctx
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor stored in ctx
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// ResolveStation picks the station an aggregate query runs against. An
// explicit station must be accessible; unrestricted actors may pass nil
// for the whole tenant and an actor assigned to a single station gets it
// implicitly.
func (a Actor) ResolveStation(stationID *uuid.UUID) (*uuid.UUID, error) {
	if stationID != nil {
		if err := a.CheckStation(*stationID); err != nil {
			return nil, err
		}
		return stationID, nil
	}
	if !a.Restricted() {
		return nil, nil
	}
	if len(a.StationIDs) == 1 {
		id := a.StationIDs[0]
		return &id, nil
	}
	return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station is required")
}
