package station

import (
	"context"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
)

// The guards below must run inside TransactionScope.Execute, before the
// insert they protect. Each takes a row lock on the tenant first so that
// concurrent creations for one tenant serialize on the count.

// BeforeCreateStation rejects a new station once the tenant has reached its
// plan's station limit
func BeforeCreateStation(ctx context.Context, repos unitofwork.Repositories, tenantID uuid.UUID) error {
	plan, err := lockTenantPlan(ctx, repos, tenantID)
	if err != nil {
		return err
	}
	count, err := repos.Stations().CountByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return station.CheckPlanLimit(station.LimitStations, count, plan.MaxStations)
}

// BeforeCreatePump rejects a new pump once the station has reached the
// plan's pumps-per-station limit
func BeforeCreatePump(ctx context.Context, repos unitofwork.Repositories, tenantID, stationID uuid.UUID) error {
	plan, err := lockTenantPlan(ctx, repos, tenantID)
	if err != nil {
		return err
	}
	count, err := repos.Pumps().CountByStation(ctx, tenantID, stationID)
	if err != nil {
		return err
	}
	return station.CheckPlanLimit(station.LimitPumpsPerStation, count, plan.MaxPumpsPerStation)
}

// BeforeCreateNozzle rejects a new nozzle once the pump has reached the
// plan's nozzles-per-pump limit
func BeforeCreateNozzle(ctx context.Context, repos unitofwork.Repositories, tenantID, pumpID uuid.UUID) error {
	plan, err := lockTenantPlan(ctx, repos, tenantID)
	if err != nil {
		return err
	}
	count, err := repos.Nozzles().CountByPump(ctx, tenantID, pumpID)
	if err != nil {
		return err
	}
	return station.CheckPlanLimit(station.LimitNozzlesPerPump, count, plan.MaxNozzlesPerPump)
}

func lockTenantPlan(ctx context.Context, repos unitofwork.Repositories, tenantID uuid.UUID) (*identity.Plan, error) {
	tenant, err := repos.Tenants().LockByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repos.Plans().FindByID(ctx, tenant.PlanID)
}
