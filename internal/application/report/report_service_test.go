package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/fuelsync/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fixture struct {
	repos     *persistence.GormRepositories
	reports   *ReportService
	dashboard *DashboardService
	archive   *storage.MemoryStorage
	owner     access.Actor
	highway   *station.Station
	market    *station.Station
	now       time.Time
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newFixture seeds two stations. Highway sells petrol at 100 (cost 90):
// 10 L cash and 5 L card today, 2 L on credit three days ago. Market sells
// 20 L of diesel at 90 (cost 80) for cash today.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := persistence.NewRepositories(persistencetest.OpenSQLite(t))
	now := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)
	f := &fixture{
		repos:   repos,
		archive: storage.NewMemoryStorage("http://files.local"),
		owner:   access.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: identity.RoleOwner},
		now:     now,
	}
	f.reports = NewReportService(repos, f.archive, zap.NewNop())
	f.reports.now = func() time.Time { return now }
	f.dashboard = NewDashboardService(repos, zap.NewNop())
	f.dashboard.now = func() time.Time { return now }

	c, err := credit.NewCreditor(f.owner.TenantID, nil, "Transport Co", dec("1000"))
	require.NoError(t, err)
	c.Balance = dec("200")
	require.NoError(t, repos.Creditors().Save(ctx, c))

	var petrol, diesel *station.Nozzle
	f.highway, petrol = f.seedStation(t, "Highway", station.FuelPetrol)
	f.market, diesel = f.seedStation(t, "Market", station.FuelDiesel)

	today := shared.StartOfDay(now)
	f.sale(t, f.highway, petrol, "10", "100", "90", sales.PaymentCash, nil, today.Add(8*time.Hour))
	f.sale(t, f.highway, petrol, "5", "100", "90", sales.PaymentCard, nil, today.Add(9*time.Hour))
	f.sale(t, f.highway, petrol, "2", "100", "90", sales.PaymentCredit, &c.ID, today.AddDate(0, 0, -3).Add(10*time.Hour))
	f.sale(t, f.market, diesel, "20", "90", "80", sales.PaymentCash, nil, today.Add(8*time.Hour+30*time.Minute))
	return f
}

func (f *fixture) seedStation(t *testing.T, name string, fuel station.FuelType) (*station.Station, *station.Nozzle) {
	t.Helper()
	ctx := context.Background()
	st, err := station.NewStation(f.owner.TenantID, name, "")
	require.NoError(t, err)
	require.NoError(t, f.repos.Stations().Save(ctx, st))
	p, err := station.NewPump(f.owner.TenantID, st.ID, "P1", "")
	require.NoError(t, err)
	require.NoError(t, f.repos.Pumps().Save(ctx, p))
	n, err := station.NewNozzle(f.owner.TenantID, p.ID, 1, fuel)
	require.NoError(t, err)
	require.NoError(t, f.repos.Nozzles().Save(ctx, n))
	return st, n
}

func (f *fixture) sale(t *testing.T, st *station.Station, n *station.Nozzle, volume, price, cost string, method sales.PaymentMethod, creditorID *uuid.UUID, at time.Time) {
	t.Helper()
	s, err := sales.NewSale(f.owner.TenantID, sales.SaleInput{
		NozzleID:      n.ID,
		StationID:     st.ID,
		FuelType:      string(n.FuelType),
		Volume:        dec(volume),
		Price:         dec(price),
		CostPrice:     dec(cost),
		PaymentMethod: method,
		CreditorID:    creditorID,
		RecordedAt:    at,
	})
	require.NoError(t, err)
	require.NoError(t, f.repos.Sales().Save(context.Background(), s))
}

func (f *fixture) manager() access.Actor {
	return access.Actor{TenantID: f.owner.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{f.highway.ID}}
}

func TestReportService_ExportSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("json with summary", func(t *testing.T) {
		out, err := f.reports.ExportSales(ctx, f.owner, ExportInput{})
		require.NoError(t, err)
		assert.Equal(t, "application/json", out.ContentType)
		assert.Equal(t, "sales-2026-02-19-2026-03-20.json", out.Filename)
		assert.Equal(t, 4, out.Rows)

		var body SalesExport
		require.NoError(t, json.Unmarshal(out.Data, &body))
		require.Len(t, body.Rows, 4)
		assert.Equal(t, "Transport Co", body.Rows[0].CreditorName)
		assert.Equal(t, "3500", body.Summary.Amount.String())
		assert.Equal(t, int64(4), body.Summary.Count)
	})

	t.Run("csv", func(t *testing.T) {
		out, err := f.reports.ExportSales(ctx, f.owner, ExportInput{Format: FormatCSV, StationID: &f.market.ID})
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Station,Fuel Type,Volume,Price,Cost Price,Amount,Profit"))
		assert.True(t, strings.HasPrefix(lines[1], "Market,Diesel,20,90,80,1800,200,Cash"))
	})

	t.Run("archived xlsx", func(t *testing.T) {
		out, err := f.reports.ExportSales(ctx, f.owner, ExportInput{Format: FormatXLSX, Archive: true})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.URL, "http://files.local/"))
		require.NotNil(t, out.ExpiresAt)

		key := fmt.Sprintf("exports/%s/%d-%s", f.owner.TenantID, f.now.Unix(), out.Filename)
		stored, contentType, ok := f.archive.Get(key)
		require.True(t, ok)
		assert.Equal(t, out.ContentType, contentType)

		book, err := excelize.OpenReader(bytes.NewReader(stored))
		require.NoError(t, err)
		defer book.Close()
		title, err := book.GetCellValue("Report", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Sales Report", title)
	})

	t.Run("restricted actors only see their stations", func(t *testing.T) {
		out, err := f.reports.ExportSales(ctx, f.manager(), ExportInput{})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Rows)
		_, err = f.reports.ExportSales(ctx, f.manager(), ExportInput{StationID: &f.market.ID})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.reports.ExportSales(ctx, f.owner, ExportInput{Format: "pdf"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = f.reports.ExportSales(ctx, f.owner, ExportInput{From: f.now, To: f.now.Add(-time.Hour)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = f.reports.ExportSales(ctx, f.owner, ExportInput{From: f.now.AddDate(-2, 0, 0)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		unarchived := NewReportService(f.repos, nil, zap.NewNop())
		_, err = unarchived.ExportSales(ctx, f.owner, ExportInput{Archive: true})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestReportService_Financial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.reports.Financial(ctx, f.owner, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "monthly", string(out.Period))
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "Highway", out.Rows[0].StationName)
	assert.Equal(t, "1700", out.Rows[0].TotalRevenue.String())
	assert.Equal(t, "3500", out.Totals.Amount.String())
	assert.Equal(t, int64(4), out.Totals.Count)

	daily, err := f.reports.Financial(ctx, f.manager(), nil, "daily")
	require.NoError(t, err)
	require.Len(t, daily.Rows, 1)
	assert.Equal(t, "1500", daily.Rows[0].TotalRevenue.String())

	_, err = f.reports.Financial(ctx, f.owner, nil, "hourly")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDashboardService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.dashboard.Dashboard(ctx, f.owner, DashboardInput{})
	require.NoError(t, err)
	assert.Equal(t, "3300", out.Today.Amount.String())
	assert.Equal(t, int64(3), out.Today.Count)
	assert.Equal(t, "3500", out.Month.Amount.String())
	assert.Len(t, out.PaymentMethods, 3)
	assert.Len(t, out.FuelTypes, 2)

	require.Len(t, out.Trend, 7)
	assert.Equal(t, "2026-03-14", out.Trend[0].Key)
	assert.Equal(t, "200", out.Trend[3].Amount.String())
	assert.Equal(t, "2026-03-20", out.Trend[6].Key)
	assert.Equal(t, "3300", out.Trend[6].Amount.String())

	require.Len(t, out.TopCreditors, 1)
	assert.Equal(t, "20", out.TopCreditors[0].Utilization.String())

	scoped, err := f.dashboard.Dashboard(ctx, f.manager(), DashboardInput{Days: 1})
	require.NoError(t, err)
	assert.Equal(t, "1500", scoped.Today.Amount.String())
	require.Len(t, scoped.Trend, 1)
}

func TestDashboardService_Analytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.dashboard.Analytics(ctx, f.owner, AnalyticsInput{})
	require.NoError(t, err)
	require.Len(t, out.Hourly, 24)
	assert.Equal(t, "2800", out.Hourly[8].Amount.String())
	require.Len(t, out.PeakHours, 3)
	assert.Equal(t, "08", out.PeakHours[0].Key)
	assert.Len(t, out.FuelPerformance, 2)

	require.Len(t, out.Stations, 2)
	assert.Equal(t, "Market", out.Stations[0].StationName)
	assert.Equal(t, 1, out.Stations[0].Rank)
	assert.Equal(t, "51.4", out.Stations[0].Share.String())
	assert.Equal(t, "Highway", out.Stations[1].StationName)

	scoped, err := f.dashboard.Analytics(ctx, f.manager(), AnalyticsInput{})
	require.NoError(t, err)
	require.Len(t, scoped.Stations, 1)
	assert.Equal(t, "100", scoped.Stations[0].Share.String())

	multi := access.Actor{TenantID: f.owner.TenantID, Role: identity.RoleManager, StationIDs: []uuid.UUID{f.highway.ID, f.market.ID}}
	_, err = f.dashboard.Analytics(ctx, multi, AnalyticsInput{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestReportService_Schedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := access.Actor{TenantID: f.owner.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{f.highway.ID}}

	wide, err := f.reports.CreateSchedule(ctx, f.owner, CreateScheduleInput{Type: "financial", Frequency: "monthly"})
	require.NoError(t, err)
	assert.Nil(t, wide.StationID)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), wide.NextRunAt)
	assert.Equal(t, &f.owner.UserID, wide.CreatedBy)

	highway, err := f.reports.CreateSchedule(ctx, manager, CreateScheduleInput{StationID: &f.highway.ID, Type: "sales", Frequency: "daily"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), highway.NextRunAt)

	market, err := f.reports.CreateSchedule(ctx, f.owner, CreateScheduleInput{StationID: &f.market.ID, Type: "sales", Frequency: "weekly"})
	require.NoError(t, err)

	t.Run("rejects", func(t *testing.T) {
		_, err := f.reports.CreateSchedule(ctx, manager, CreateScheduleInput{StationID: &f.market.ID, Type: "sales", Frequency: "daily"})
		assert.ErrorIs(t, err, access.ErrStationForbidden)

		missing := uuid.New()
		_, err = f.reports.CreateSchedule(ctx, f.owner, CreateScheduleInput{StationID: &missing, Type: "sales", Frequency: "daily"})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = f.reports.CreateSchedule(ctx, f.owner, CreateScheduleInput{Type: "sales", Frequency: "hourly"})
		assert.Error(t, err)
	})

	t.Run("list follows station access", func(t *testing.T) {
		all, err := f.reports.ListSchedules(ctx, f.owner)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		mine, err := f.reports.ListSchedules(ctx, manager)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, highway.ID, mine[0].ID)
		assert.Equal(t, wide.ID, mine[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		err := f.reports.DeleteSchedule(ctx, manager, market.ID)
		assert.ErrorIs(t, err, access.ErrStationForbidden)

		require.NoError(t, f.reports.DeleteSchedule(ctx, manager, highway.ID))
		assert.ErrorIs(t, f.reports.DeleteSchedule(ctx, manager, highway.ID), shared.ErrNotFound)

		all, err := f.reports.ListSchedules(ctx, f.owner)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
