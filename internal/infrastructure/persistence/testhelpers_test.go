package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return persistencetest.OpenSQLite(t)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// hierarchy is a tenant with one station, pump and nozzle
type hierarchy struct {
	repos    *GormRepositories
	plan     *identity.Plan
	tenantID uuid.UUID
	station  *station.Station
	pump     *station.Pump
	nozzle   *station.Nozzle
}

func seedHierarchy(t *testing.T, db *gorm.DB, tenantName string) *hierarchy {
	t.Helper()
	ctx := context.Background()
	repos := NewRepositories(db)

	plan, err := identity.NewPlan("Plan "+tenantName, identity.PlanLimits{}, decimal.Zero, decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, repos.Plans().Save(ctx, plan))

	tn, err := identity.NewTenant(tenantName, plan.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Tenants().Save(ctx, tn))

	st, err := station.NewStation(tn.ID, tenantName+" Highway", "NH-48")
	require.NoError(t, err)
	require.NoError(t, repos.Stations().Save(ctx, st))

	pump, err := station.NewPump(tn.ID, st.ID, "Pump 1", "SN-1")
	require.NoError(t, err)
	require.NoError(t, repos.Pumps().Save(ctx, pump))

	nozzle, err := station.NewNozzle(tn.ID, pump.ID, 1, station.FuelPetrol)
	require.NoError(t, err)
	require.NoError(t, repos.Nozzles().Save(ctx, nozzle))

	return &hierarchy{repos: repos, plan: plan, tenantID: tn.ID, station: st, pump: pump, nozzle: nozzle}
}

func (h *hierarchy) addPrice(t *testing.T, price string, validFrom time.Time) *pricing.FuelPrice {
	t.Helper()
	p, err := pricing.NewFuelPrice(h.tenantID, h.station.ID, h.nozzle.FuelType, dec(price), decimal.Zero, validFrom, nil)
	require.NoError(t, err)
	require.NoError(t, h.repos.Prices().Save(context.Background(), p))
	return p
}

// addReading stores a reading and the sale priced from the previous one
func (h *hierarchy) addReading(t *testing.T, value, price string, at time.Time, method sales.PaymentMethod) *sales.Reading {
	t.Helper()
	ctx := context.Background()
	last, err := h.repos.Readings().LastActive(ctx, h.tenantID, h.nozzle.ID)
	require.NoError(t, err)

	r, err := sales.NewReading(h.tenantID, h.station.ID, h.nozzle.ID, dec(value), at, method, nil, nil, last)
	require.NoError(t, err)
	require.NoError(t, h.repos.Readings().Save(ctx, r))

	sale, err := sales.NewSale(h.tenantID, sales.SaleInput{
		ReadingID:     &r.ID,
		NozzleID:      h.nozzle.ID,
		StationID:     h.station.ID,
		FuelType:      string(h.nozzle.FuelType),
		Volume:        r.Delta(last),
		Price:         dec(price),
		PaymentMethod: method,
		RecordedAt:    at,
	})
	require.NoError(t, err)
	require.NoError(t, h.repos.Sales().Save(ctx, sale))
	return r
}
