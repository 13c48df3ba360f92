//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/migration"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_MigratedSchemaMatchesModels(t *testing.T) {
	db, sqlDB := persistencetest.OpenPostgres(t)
	ctx := context.Background()

	issues, err := migration.ValidateSchema(ctx, sqlDB, "public")
	require.NoError(t, err)
	assert.Empty(t, issues)

	info, err := migration.CheckConnection(ctx, sqlDB)
	require.NoError(t, err)
	assert.NotEmpty(t, info.ServerVersion)

	// the models must round-trip through the migrated tables
	h := seedHierarchy(t, db, "Acme Fuels")
	found, err := h.repos.Stations().FindByID(ctx, h.tenantID, h.station.ID)
	require.NoError(t, err)
	assert.Equal(t, h.station.Name, found.Name)
}

func TestPostgres_ReadingsAndSales(t *testing.T) {
	db, _ := persistencetest.OpenPostgres(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	other := seedHierarchy(t, db, "Blue Petro")

	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	h.addPrice(t, "100", day.Add(-time.Hour))
	h.addReading(t, "1000", "100", day.Add(8*time.Hour), sales.PaymentCash)
	h.addReading(t, "1010", "100", day.Add(12*time.Hour), sales.PaymentUPI)

	last, err := h.repos.Readings().LastActive(ctx, h.tenantID, h.nozzle.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Reading.Equal(dec("1010")))

	totals, err := h.repos.Sales().TotalsByPaymentMethod(ctx, h.tenantID, h.station.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, totals[sales.PaymentUPI].Equal(dec("1000")), totals[sales.PaymentUPI].String())

	t.Run("tenants are isolated", func(t *testing.T) {
		_, err := other.repos.Stations().FindByID(ctx, other.tenantID, h.station.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		last, err := h.repos.Readings().LastActive(ctx, other.tenantID, h.nozzle.ID)
		require.NoError(t, err)
		assert.Nil(t, last)
	})
}
