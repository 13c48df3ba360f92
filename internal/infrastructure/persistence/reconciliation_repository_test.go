package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReconciliationRepository_DailySummary(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")

	h.addReading(t, "500", "100", day0.Add(-2*time.Hour), sales.PaymentCash)
	h.addReading(t, "540", "100", day0.Add(9*time.Hour), sales.PaymentCash)
	h.addReading(t, "552.25", "101", day0.Add(17*time.Hour), sales.PaymentCard)

	rows, err := h.repos.Reconciliations().DailySummary(ctx, h.tenantID, h.station.ID, day0.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "500", rows[0].PreviousReading.String())
	assert.Equal(t, "40", rows[0].DeltaVolume.String())
	assert.Equal(t, "4000", rows[0].SaleValue.String())
	assert.Equal(t, "Pump 1", rows[0].PumpName)

	assert.Equal(t, "12.25", rows[1].DeltaVolume.String())
	assert.Equal(t, "101", rows[1].PricePerLitre.String())
	assert.Equal(t, "card", rows[1].PaymentMethod)

	t.Run("first reading starts from zero", func(t *testing.T) {
		rows, err := h.repos.Reconciliations().DailySummary(ctx, h.tenantID, h.station.ID, day0.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].PreviousReading.IsZero())
		assert.Equal(t, "500", rows[0].DeltaVolume.String())
	})
}

func TestGormReconciliationRepository_DailySummary_SameTimestamp(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")

	h.addReading(t, "1000", "100", day0.Add(-4*time.Hour), sales.PaymentCash)
	second := h.addReading(t, "1010", "100", day0.Add(12*time.Hour), sales.PaymentCash)
	third := h.addReading(t, "1020", "100", day0.Add(12*time.Hour), sales.PaymentCash)

	rows, err := h.repos.Reconciliations().DailySummary(ctx, h.tenantID, h.station.ID, day0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, second.ID, rows[0].ReadingID)
	assert.Equal(t, "1000", rows[0].PreviousReading.String())
	assert.Equal(t, "10", rows[0].DeltaVolume.String())
	assert.Equal(t, third.ID, rows[1].ReadingID)
	assert.Equal(t, "1010", rows[1].PreviousReading.String())
	assert.Equal(t, "10", rows[1].DeltaVolume.String())

	total := rows[0].DeltaVolume.Add(rows[1].DeltaVolume)
	assert.Equal(t, "20", total.String(), "summary volume must equal meter movement")

	t.Run("reading list uses the same predecessor", func(t *testing.T) {
		views, err := h.repos.Readings().FindViews(ctx, h.tenantID, sales.ReadingFilter{})
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, third.ID, views[0].ID)
		require.NotNil(t, views[0].PreviousReading)
		assert.Equal(t, "1010", views[0].PreviousReading.String())
	})

	t.Run("previous active breaks ties by creation order", func(t *testing.T) {
		prev, err := h.repos.Readings().PreviousActive(ctx, h.tenantID, third)
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, second.ID, prev.ID)
	})
}

func TestGormReconciliationRepository_Finalize(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	recs := h.repos.Reconciliations()

	existing, err := recs.FindByDay(ctx, h.tenantID, h.station.ID, day0)
	require.NoError(t, err)
	assert.Nil(t, existing)

	expected := reconciliation.Totals{Cash: decimal.NewFromInt(1000), Card: decimal.NewFromInt(500)}
	declared := reconciliation.Totals{Cash: decimal.NewFromInt(950), Card: decimal.NewFromInt(500)}
	rec, err := reconciliation.Run(h.tenantID, h.station.ID, day0.Add(15*time.Hour), expected, declared, nil, nil)
	require.NoError(t, err)
	require.NoError(t, recs.Save(ctx, rec))

	closed, err := recs.IsFinalized(ctx, h.tenantID, h.station.ID, day0.Add(23*time.Hour))
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = recs.IsFinalized(ctx, h.tenantID, h.station.ID, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, closed)

	found, err := recs.FindByDay(ctx, h.tenantID, h.station.ID, day0.Add(8*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rec.ID, found.ID)
	assert.Equal(t, "50", found.Difference.String())
	assert.Equal(t, reconciliation.OutcomeShortfall, found.Outcome)

	_, err = reconciliation.Run(h.tenantID, h.station.ID, day0, expected, declared, nil, found)
	assert.Error(t, err)

	t.Run("a second row for the same day is rejected", func(t *testing.T) {
		dup, err := reconciliation.Run(h.tenantID, h.station.ID, day0, expected, declared, nil, nil)
		require.NoError(t, err)
		assert.Error(t, recs.Save(ctx, dup))
	})
}

func TestGormCashReportRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	reports := h.repos.CashReports()
	userID := uuid.New()

	exists, err := reports.ExistsForDay(ctx, h.tenantID, h.station.ID, day0)
	require.NoError(t, err)
	assert.False(t, exists)

	morning, err := reconciliation.NewCashReport(h.tenantID, h.station.ID, userID, day0.Add(9*time.Hour),
		reconciliation.ShiftMorning, dec("1200.50"), dec("300"), dec("0"), "")
	require.NoError(t, err)
	morning.AddCredit(dec("250"))
	require.NoError(t, reports.Save(ctx, morning))

	evening, err := reconciliation.NewCashReport(h.tenantID, h.station.ID, userID, day0.Add(20*time.Hour),
		reconciliation.ShiftNight, dec("800"), dec("0"), dec("149.50"), "")
	require.NoError(t, err)
	require.NoError(t, reports.Save(ctx, evening))

	totals, err := reports.DeclaredTotals(ctx, h.tenantID, h.station.ID, day0)
	require.NoError(t, err)
	assert.Equal(t, "2000.5", totals.Cash.String())
	assert.Equal(t, "300", totals.Card.String())
	assert.Equal(t, "149.5", totals.UPI.String())
	assert.Equal(t, "250", totals.Credit.String())

	exists, err = reports.ExistsForDay(ctx, h.tenantID, h.station.ID, day0.Add(12*time.Hour))
	require.NoError(t, err)
	assert.True(t, exists)

	listed, err := reports.FindAll(ctx, h.tenantID, reconciliation.CashReportFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	empty, err := reports.DeclaredTotals(ctx, h.tenantID, h.station.ID, day0.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.True(t, empty.Sum().IsZero())
}
