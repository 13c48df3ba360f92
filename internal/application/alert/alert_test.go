package alert

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type capturingNotifier struct {
	sent []Notification
}

func (n *capturingNotifier) Notify(_ context.Context, note Notification) error {
	n.sent = append(n.sent, note)
	return nil
}

func newService(t *testing.T) (*AlertService, *persistence.GormRepositories) {
	t.Helper()
	repos := persistence.NewRepositories(persistencetest.OpenSQLite(t))
	return NewAlertService(repos, zap.NewNop()), repos
}

func TestAlertService_RaiseListAcknowledge(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := access.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: identity.RoleOwner}
	stationA, stationB := uuid.New(), uuid.New()

	created, err := svc.Raise(ctx, owner.TenantID, &stationA, alert.TypeMissingPrice, alert.SeverityWarning, "a/petrol", "No price")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.Raise(ctx, owner.TenantID, &stationA, alert.TypeMissingPrice, alert.SeverityWarning, "a/petrol", "No price again")
	require.NoError(t, err)
	assert.False(t, created, "same type, subject and day is deduplicated")

	_, err = svc.Raise(ctx, owner.TenantID, &stationB, alert.TypeStationInactive, alert.SeverityWarning, "b", "Quiet station")
	require.NoError(t, err)
	_, err = svc.Raise(ctx, owner.TenantID, nil, alert.TypeCreditNearLimit, alert.SeverityCritical, "c", "Creditor at limit")
	require.NoError(t, err)
	_, err = svc.Raise(ctx, owner.TenantID, nil, alert.TypeCreditNearLimit, "loud", "d", "x")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	all, err := svc.List(ctx, owner, ListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	manager := access.Actor{TenantID: owner.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{stationA}}
	visible, err := svc.List(ctx, manager, ListInput{})
	require.NoError(t, err)
	assert.Len(t, visible, 2, "own station plus tenant-wide alerts")
	_, err = svc.List(ctx, manager, ListInput{StationID: &stationB})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	var quiet AlertDTO
	for _, a := range all {
		if a.Type == alert.TypeStationInactive {
			quiet = a
		}
	}
	_, err = svc.Acknowledge(ctx, manager, quiet.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	acked, err := svc.Acknowledge(ctx, owner, quiet.ID)
	require.NoError(t, err)
	assert.True(t, acked.IsRead)
	assert.NotNil(t, acked.ReadAt)

	unread, err := svc.CountUnread(ctx, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
	unread, err = svc.CountUnread(ctx, manager, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	unreadOnly, err := svc.List(ctx, owner, ListInput{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unreadOnly, 2)
}

func TestEventHandler_Handle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	notifier := &capturingNotifier{}
	h := NewEventHandler(svc, zap.NewNop()).WithNotifier(notifier)
	tenantID, stationID := uuid.New(), uuid.New()

	c, err := credit.NewCreditor(tenantID, nil, "Transport Co", decimal.NewFromInt(1000))
	require.NoError(t, err)
	c.Balance = decimal.NewFromInt(1000)
	require.NoError(t, h.Handle(ctx, credit.NewCreditorNearLimitEvent(c, stationID)))

	inv := inventory.NewInventory(tenantID, stationID, station.FuelDiesel)
	inv.MinimumLevel = decimal.NewFromInt(500)
	require.NoError(t, h.Handle(ctx, inventory.NewInventoryLowEvent(inv)))
	require.NoError(t, h.Handle(ctx, inventory.NewInventoryLowEvent(inv)))

	require.Len(t, notifier.sent, 2, "the repeated low stock event is deduplicated")
	assert.Equal(t, alert.TypeCreditNearLimit, notifier.sent[0].Type)
	assert.Equal(t, alert.SeverityCritical, notifier.sent[0].Severity)
	assert.Equal(t, alert.TypeLowInventory, notifier.sent[1].Type)
	assert.Equal(t, alert.SeverityCritical, notifier.sent[1].Severity)
	assert.Equal(t, &stationID, notifier.sent[1].StationID)

	err = h.Handle(ctx, sales.NewReadingVoidedEvent(&sales.Reading{}))
	assert.Error(t, err)
}

type ruleFixture struct {
	db     *gorm.DB
	repos  *persistence.GormRepositories
	engine *RuleEngine
	tenant *identity.Tenant
	now    time.Time
}

func newRuleFixture(t *testing.T) *ruleFixture {
	t.Helper()
	ctx := context.Background()
	db := persistencetest.OpenSQLite(t)
	repos := persistence.NewRepositories(db)
	plan, err := identity.NewPlan("Basic", identity.PlanLimits{}, decimal.Zero, decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, repos.Plans().Save(ctx, plan))
	tn, err := identity.NewTenant("Acme Fuels", plan.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Tenants().Save(ctx, tn))

	engine := NewRuleEngine(repos, NewAlertService(repos, zap.NewNop()), DefaultRules(), zap.NewNop())
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }
	return &ruleFixture{db: db, repos: repos, engine: engine, tenant: tn, now: now}
}

func (f *ruleFixture) station(t *testing.T, name string) *station.Station {
	t.Helper()
	st, err := station.NewStation(f.tenant.ID, name, "")
	require.NoError(t, err)
	st.CreatedAt = f.now.AddDate(0, 0, -10)
	require.NoError(t, f.repos.Stations().Save(context.Background(), st))
	return st
}

func (f *ruleFixture) pump(t *testing.T, st *station.Station, name string) *station.Pump {
	t.Helper()
	p, err := station.NewPump(f.tenant.ID, st.ID, name, "")
	require.NoError(t, err)
	require.NoError(t, f.repos.Pumps().Save(context.Background(), p))
	return p
}

func (f *ruleFixture) nozzle(t *testing.T, p *station.Pump, number int, fuel station.FuelType) *station.Nozzle {
	t.Helper()
	n, err := station.NewNozzle(f.tenant.ID, p.ID, number, fuel)
	require.NoError(t, err)
	n.CreatedAt = f.now.AddDate(0, 0, -10)
	require.NoError(t, f.repos.Nozzles().Save(context.Background(), n))
	return n
}

// readings stores one meter value per offset, each with its sale
func (f *ruleFixture) readings(t *testing.T, st *station.Station, n *station.Nozzle, values []int64, offsets []time.Duration) {
	t.Helper()
	ctx := context.Background()
	var last *sales.Reading
	for i, v := range values {
		r, err := sales.NewReading(f.tenant.ID, st.ID, n.ID, decimal.NewFromInt(v), f.now.Add(-offsets[i]), sales.PaymentCash, nil, nil, last)
		require.NoError(t, err)
		require.NoError(t, f.repos.Readings().Save(ctx, r))
		if last != nil {
			readingID := r.ID
			sale, err := sales.NewSale(f.tenant.ID, sales.SaleInput{
				ReadingID:     &readingID,
				NozzleID:      n.ID,
				StationID:     st.ID,
				FuelType:      string(n.FuelType),
				Volume:        r.Delta(last),
				Price:         decimal.NewFromInt(100),
				PaymentMethod: sales.PaymentCash,
				RecordedAt:    r.RecordedAt,
			})
			require.NoError(t, err)
			require.NoError(t, f.repos.Sales().Save(ctx, sale))
		}
		last = r
	}
}

func (f *ruleFixture) alertTypes(t *testing.T) map[alert.Type]int {
	t.Helper()
	rows, err := f.repos.Alerts().FindAll(context.Background(), f.tenant.ID, alert.Filter{Limit: 200})
	require.NoError(t, err)
	out := map[alert.Type]int{}
	for _, a := range rows {
		out[a.Type]++
	}
	return out
}

func TestRuleEngine_RunOnce(t *testing.T) {
	f := newRuleFixture(t)
	ctx := context.Background()

	highway := f.station(t, "Highway")
	p1 := f.pump(t, highway, "P1")
	petrol := f.nozzle(t, p1, 1, station.FuelPetrol)
	f.nozzle(t, p1, 2, station.FuelDiesel)
	price, err := pricing.NewFuelPrice(f.tenant.ID, highway.ID, station.FuelPetrol, decimal.NewFromInt(100), decimal.NewFromInt(90), f.now.AddDate(0, 0, -10), nil)
	require.NoError(t, err)
	require.NoError(t, f.repos.Prices().Save(ctx, price))
	// volumes 10, 10, 10 then a jump to 20
	f.readings(t, highway, petrol,
		[]int64{1000, 1010, 1020, 1030, 1050},
		[]time.Duration{120 * time.Hour, 96 * time.Hour, 72 * time.Hour, 48 * time.Hour, time.Hour})

	market := f.station(t, "Market")
	p2 := f.pump(t, market, "P2")
	p2.Update("", "", station.StatusMaintenance)
	require.NoError(t, f.repos.Pumps().Save(ctx, p2))
	require.NoError(t, f.db.Model(&models.PumpModel{}).Where("id = ?", p2.ID).
		UpdateColumn("updated_at", f.now.AddDate(0, 0, -9)).Error)

	c, err := credit.NewCreditor(f.tenant.ID, nil, "Transport Co", decimal.NewFromInt(1000))
	require.NoError(t, err)
	c.Balance = decimal.NewFromInt(950)
	require.NoError(t, f.repos.Creditors().Save(ctx, c))

	created, err := f.engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, created)
	assert.Equal(t, map[alert.Type]int{
		alert.TypeNoReadings:         1,
		alert.TypeMissingPrice:       1,
		alert.TypeCreditNearLimit:    1,
		alert.TypeStationInactive:    1,
		alert.TypeMaintenanceOverdue: 1,
		alert.TypeReadingJump:        1,
		alert.TypeMissingCashReport:  2,
	}, f.alertTypes(t))

	again, err := f.engine.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, again, "a second pass on the same day raises nothing new")
}

func TestRuleEngine_QuietBeforeCutoff(t *testing.T) {
	f := newRuleFixture(t)
	f.engine.now = func() time.Time { return f.now.Add(-12 * time.Hour) }
	f.station(t, "Highway")

	created, err := f.engine.RunTenant(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, map[alert.Type]int{alert.TypeStationInactive: 1}, f.alertTypes(t))
}
