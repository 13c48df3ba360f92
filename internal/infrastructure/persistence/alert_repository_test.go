package persistence

import (
	"context"
	"testing"

	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAlertRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	alerts := h.repos.Alerts()

	stationAlert, err := alert.New(h.tenantID, &h.station.ID, alert.TypeMissingPrice,
		"No petrol price at Acme Fuels Highway", alert.SeverityWarning, h.station.ID.String()+":petrol")
	require.NoError(t, err)
	inserted, err := alerts.Create(ctx, stationAlert)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("same subject on the same day is deduplicated", func(t *testing.T) {
		again, err := alert.New(h.tenantID, &h.station.ID, alert.TypeMissingPrice,
			"No petrol price at Acme Fuels Highway", alert.SeverityWarning, h.station.ID.String()+":petrol")
		require.NoError(t, err)
		inserted, err := alerts.Create(ctx, again)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	tenantWide, err := alert.New(h.tenantID, nil, alert.TypeCreditNearLimit,
		"Creditor Ravi Transport is at 92% of limit", alert.SeverityCritical, uuid.NewString())
	require.NoError(t, err)
	inserted, err = alerts.Create(ctx, tenantWide)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("allow-list keeps tenant-wide alerts", func(t *testing.T) {
		list, err := alerts.FindAll(ctx, h.tenantID, alert.Filter{StationIDs: []uuid.UUID{uuid.New()}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, tenantWide.ID, list[0].ID)
	})

	t.Run("acknowledging lowers the unread count", func(t *testing.T) {
		count, err := alerts.CountUnread(ctx, h.tenantID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		found, err := alerts.FindByID(ctx, h.tenantID, stationAlert.ID)
		require.NoError(t, err)
		found.Acknowledge()
		require.NoError(t, alerts.Save(ctx, found))

		count, err = alerts.CountUnread(ctx, h.tenantID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		unread, err := alerts.FindAll(ctx, h.tenantID, alert.Filter{UnreadOnly: true})
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, tenantWide.ID, unread[0].ID)
	})
}

func TestGormInventoryRepository_LockOrCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	stock := h.repos.Inventory()

	inv, err := stock.LockOrCreate(ctx, h.tenantID, h.station.ID, station.FuelDiesel)
	require.NoError(t, err)
	assert.True(t, inv.CurrentStock.IsZero())

	inv.Receive(dec("5000"))
	require.NoError(t, stock.Save(ctx, inv))

	again, err := stock.LockOrCreate(ctx, h.tenantID, h.station.ID, station.FuelDiesel)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID)
	assert.Equal(t, "5000", again.CurrentStock.String())

	views, err := stock.FindAll(ctx, h.tenantID, &h.station.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, h.station.Name, views[0].StationName)
	assert.Equal(t, inventory.StockGood, views[0].Status())
}
