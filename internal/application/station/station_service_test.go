package station

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fixture struct {
	repos    *persistence.GormRepositories
	stations *StationService
	pumps    *PumpService
	nozzles  *NozzleService
	actor    access.Actor
	plan     *identity.Plan
}

func newFixture(t *testing.T, limits identity.PlanLimits) *fixture {
	return newFixtureOn(t, persistencetest.OpenSQLite(t), limits)
}

func newFixtureOn(t *testing.T, db *gorm.DB, limits identity.PlanLimits) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := persistence.NewRepositories(db)
	tx := persistence.NewGormTransactionScope(db)

	plan, err := identity.NewPlan("Starter", limits, decimal.Zero, decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, repos.Plans().Save(ctx, plan))
	tenant, err := identity.NewTenant("Acme Fuels", plan.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Tenants().Save(ctx, tenant))

	log := zap.NewNop()
	return &fixture{
		repos:    repos,
		stations: NewStationService(repos, tx, log),
		pumps:    NewPumpService(repos, tx, log),
		nozzles:  NewNozzleService(repos, tx, log),
		actor:    access.Actor{TenantID: tenant.ID, UserID: uuid.New(), Role: identity.RoleOwner},
		plan:     plan,
	}
}

func TestStationService_PlanLimit(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{MaxStations: 2})
	ctx := context.Background()

	_, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)
	_, err = f.stations.Create(ctx, f.actor, CreateStationInput{Name: "highway"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	_, err = f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Market Road"})
	require.NoError(t, err)

	_, err = f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Airport"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
	assert.Contains(t, err.Error(), "Plan limit exceeded")

	page, err := f.stations.List(ctx, f.actor, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestPumpService_PlanLimit(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{MaxPumpsPerStation: 2})
	ctx := context.Background()
	st, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)

	t.Run("below the limit allows", func(t *testing.T) {
		for _, name := range []string{"P1", "P2"} {
			_, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: name})
			require.NoError(t, err)
		}
	})

	t.Run("at the limit rejects", func(t *testing.T) {
		_, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: "P3"})
		assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
		count, err := f.repos.Pumps().CountByStation(ctx, f.actor.TenantID, st.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("limit is per station", func(t *testing.T) {
		other, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Market Road"})
		require.NoError(t, err)
		_, err = f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: other.ID, Name: "P1"})
		assert.NoError(t, err)
	})

	t.Run("unknown station", func(t *testing.T) {
		_, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: uuid.New(), Name: "P1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// The SQLite pool has one connection, so this only checks the guard's
// sequential behaviour; the PostgreSQL variant exercises the row lock.
func TestPumpService_ConcurrentCreatesAtLimit(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{MaxPumpsPerStation: 3})
	ctx := context.Background()
	st, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)
	for _, name := range []string{"P1", "P2"} {
		_, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: name})
		require.NoError(t, err)
	}

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: "Racer"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
	}
	assert.Equal(t, 1, succeeded)
}

func TestNozzleService(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{MaxNozzlesPerPump: 2})
	ctx := context.Background()
	st, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)
	pump, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: "P1"})
	require.NoError(t, err)

	n1, err := f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 1, FuelType: "petrol"})
	require.NoError(t, err)
	assert.Equal(t, "Highway", n1.StationName)
	assert.Equal(t, st.ID, n1.StationID)

	_, err = f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 1, FuelType: "diesel"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	_, err = f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 2, FuelType: "kerosene"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 2, FuelType: "diesel"})
	require.NoError(t, err)
	_, err = f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 3, FuelType: "cng"})
	assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)

	list, err := f.nozzles.List(ctx, f.actor, NozzleListInput{StationID: &st.ID, FuelType: "diesel"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].NozzleNumber)

	updated, err := f.nozzles.Update(ctx, f.actor, n1.ID, UpdateNozzleInput{Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", updated.Status)
	assert.Equal(t, "petrol", updated.FuelType)

	t.Run("nozzle with readings cannot be deleted", func(t *testing.T) {
		r, err := sales.NewReading(f.actor.TenantID, st.ID, n1.ID, decimal.NewFromInt(1000), time.Now(), sales.PaymentCash, nil, nil, nil)
		require.NoError(t, err)
		require.NoError(t, f.repos.Readings().Save(ctx, r))

		err = f.nozzles.Delete(ctx, f.actor, n1.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("pump with nozzles cannot be deleted", func(t *testing.T) {
		err := f.pumps.Delete(ctx, f.actor, pump.ID)
		require.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, "Cannot delete pump with nozzles", err.Error())
	})

	t.Run("station with pumps cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, f.stations.Delete(ctx, f.actor, st.ID), shared.ErrInvalidState)
	})
}

func TestStationAccess(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{})
	ctx := context.Background()
	a, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Assigned"})
	require.NoError(t, err)
	b, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Other"})
	require.NoError(t, err)
	pumpB, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: b.ID, Name: "P1"})
	require.NoError(t, err)

	manager := access.Actor{TenantID: f.actor.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{a.ID}}

	page, err := f.stations.List(ctx, manager, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	_, err = f.stations.Get(ctx, manager, b.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = f.pumps.Get(ctx, manager, pumpB.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = f.pumps.Create(ctx, manager, CreatePumpInput{StationID: b.ID, Name: "P2"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	other := access.Actor{TenantID: uuid.New(), Role: identity.RoleOwner}
	_, err = f.stations.Get(ctx, other, a.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "stations of another tenant are invisible")
}

func TestStationService_PlanUsage(t *testing.T) {
	f := newFixture(t, identity.PlanLimits{MaxStations: 3, MaxPumpsPerStation: 4, MaxNozzlesPerPump: 2})
	ctx := context.Background()
	st, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)
	pump, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: "P1"})
	require.NoError(t, err)
	_, err = f.nozzles.Create(ctx, f.actor, CreateNozzleInput{PumpID: pump.ID, NozzleNumber: 1, FuelType: "petrol"})
	require.NoError(t, err)

	usage, err := f.stations.PlanUsage(ctx, f.actor.TenantID)
	require.NoError(t, err)
	assert.Equal(t, "Starter", usage.PlanName)
	assert.Equal(t, station.Usage{Used: 1, Limit: 3}, usage.Stations)
	assert.Equal(t, int64(2), usage.Stations.Remaining())
	require.Len(t, usage.Pumps, 1)
	assert.Equal(t, station.Usage{Used: 1, Limit: 4}, usage.Pumps[0].Usage)
	require.Len(t, usage.Nozzles, 1)
	assert.Equal(t, station.Usage{Used: 1, Limit: 2}, usage.Nozzles[0].Usage)
}

func TestBeforeCreatePump_LocksTenantRow(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	tenantID, planID, stationID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "plan_id", "status", "created_at", "updated_at"}).
			AddRow(tenantID, "Acme Fuels", planID, "active", now, now))
	mock.ExpectQuery(`SELECT \* FROM "plans" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_stations", "max_pumps_per_station", "max_nozzles_per_pump", "created_at", "updated_at"}).
			AddRow(planID, "Starter", 5, 2, 4, now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "pumps"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err = BeforeCreatePump(context.Background(), persistence.NewRepositories(db), tenantID, stationID)
	assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
