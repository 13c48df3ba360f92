package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReportRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	other := seedHierarchy(t, db, "Blue Petro")

	for i, in := range []sales.SaleInput{
		{Volume: dec("40"), Price: dec("100"), CostPrice: dec("90"), PaymentMethod: sales.PaymentCash, RecordedAt: day0.Add(8 * time.Hour)},
		{Volume: dec("10"), Price: dec("100"), CostPrice: dec("90"), PaymentMethod: sales.PaymentCard, RecordedAt: day0.Add(9 * time.Hour)},
		{Volume: dec("5"), Price: dec("100"), PaymentMethod: sales.PaymentCash, RecordedAt: day0.AddDate(0, 0, -3)},
	} {
		in.NozzleID = h.nozzle.ID
		in.StationID = h.station.ID
		in.FuelType = string(h.nozzle.FuelType)
		sale, err := sales.NewSale(h.tenantID, in)
		require.NoError(t, err, "sale %d", i)
		require.NoError(t, h.repos.Sales().Save(ctx, sale))
	}
	voided, err := sales.NewSale(h.tenantID, sales.SaleInput{
		NozzleID: h.nozzle.ID, StationID: h.station.ID, FuelType: "petrol",
		Volume: dec("99"), Price: dec("100"), PaymentMethod: sales.PaymentCash, RecordedAt: day0.Add(10 * time.Hour),
	})
	require.NoError(t, err)
	voided.Void()
	require.NoError(t, h.repos.Sales().Save(ctx, voided))
	other.addReading(t, "70", "95", day0.Add(8*time.Hour), sales.PaymentCash)

	reports := h.repos.Reports()
	today := report.SalesFilter{From: day0, To: day0.AddDate(0, 0, 1)}

	t.Run("totals skip voided and other tenants", func(t *testing.T) {
		totals, err := reports.Totals(ctx, h.tenantID, today)
		require.NoError(t, err)
		assert.Equal(t, "5000", totals.Amount.String())
		assert.Equal(t, "50", totals.Volume.String())
		assert.Equal(t, "500", totals.Profit.String())
		assert.Equal(t, int64(2), totals.Count)
	})

	t.Run("sale rows oldest first", func(t *testing.T) {
		rows, err := reports.SaleRows(ctx, h.tenantID, report.SalesFilter{StationID: &h.station.ID})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "5", rows[0].Volume.String())
		assert.Equal(t, h.station.Name, rows[1].StationName)
		assert.Empty(t, rows[1].CreditorName)
	})

	t.Run("financial groups by station and fuel", func(t *testing.T) {
		rows, err := reports.Financial(ctx, h.tenantID, nil, day0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "petrol", rows[0].FuelType)
		assert.Equal(t, "5000", rows[0].TotalRevenue.String())
		assert.Equal(t, int64(2), rows[0].TransactionCount)
		assert.Equal(t, "10", rows[0].ProfitMargin.String())
	})
	t.Run("trend buckets by day and hour", func(t *testing.T) {
		days, err := reports.Trend(ctx, h.tenantID, report.SalesFilter{}, report.BucketDay)
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, day0.AddDate(0, 0, -3).Format(time.DateOnly), days[0].Key)
		assert.Equal(t, day0.Format(time.DateOnly), days[1].Key)
		assert.Equal(t, "5000", days[1].Amount.String())

		hours, err := reports.Trend(ctx, h.tenantID, today, report.BucketHour)
		require.NoError(t, err)
		require.Len(t, hours, 2)
		assert.Equal(t, "08", hours[0].Key)
		assert.Equal(t, "40", hours[0].Volume.String())
		assert.Equal(t, "09", hours[1].Key)
	})
}

func TestGormScheduleRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	other := seedHierarchy(t, db, "Blue Petro")
	schedules := h.repos.ReportSchedules()
	now := day0.Add(10 * time.Hour)

	monthly, err := report.NewSchedule(h.tenantID, nil, report.ScheduleFinancial, report.PeriodMonthly, nil, now)
	require.NoError(t, err)
	daily, err := report.NewSchedule(h.tenantID, &h.station.ID, report.ScheduleSales, report.PeriodDaily, nil, now)
	require.NoError(t, err)
	elsewhere := uuid.New()
	hidden, err := report.NewSchedule(h.tenantID, &elsewhere, report.ScheduleSales, report.PeriodDaily, nil, now)
	require.NoError(t, err)
	foreign, err := report.NewSchedule(other.tenantID, nil, report.ScheduleSales, report.PeriodDaily, nil, now)
	require.NoError(t, err)
	for _, s := range []*report.Schedule{monthly, daily, hidden, foreign} {
		require.NoError(t, schedules.Save(ctx, s))
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := schedules.FindByID(ctx, h.tenantID, daily.ID)
		require.NoError(t, err)
		assert.Equal(t, report.ScheduleSales, got.Type)
		assert.Equal(t, report.PeriodDaily, got.Frequency)
		require.NotNil(t, got.StationID)
		assert.Equal(t, h.station.ID, *got.StationID)
		assert.True(t, daily.NextRunAt.Equal(got.NextRunAt))
	})

	t.Run("soonest first within tenant", func(t *testing.T) {
		rows, err := schedules.FindAll(ctx, h.tenantID, nil)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, report.PeriodMonthly, rows[2].Frequency)
	})

	t.Run("station scope keeps tenant-wide schedules", func(t *testing.T) {
		rows, err := schedules.FindAll(ctx, h.tenantID, []uuid.UUID{h.station.ID})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, daily.ID, rows[0].ID)
		assert.Equal(t, monthly.ID, rows[1].ID)

		rows, err = schedules.FindAll(ctx, h.tenantID, []uuid.UUID{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, monthly.ID, rows[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		err := schedules.Delete(ctx, other.tenantID, daily.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound, "other tenants cannot delete")

		require.NoError(t, schedules.Delete(ctx, h.tenantID, daily.ID))
		_, err = schedules.FindByID(ctx, h.tenantID, daily.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, schedules.Delete(ctx, h.tenantID, daily.ID), shared.ErrNotFound)
	})
}
