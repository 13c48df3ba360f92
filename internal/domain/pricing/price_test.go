package pricing

import (
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFuelPrice(t *testing.T) {
	tenantID, stationID := uuid.New(), uuid.New()

	t.Run("defaults valid_from to now and raises event", func(t *testing.T) {
		before := time.Now().Add(-time.Second)
		p, err := NewFuelPrice(tenantID, stationID, station.FuelPetrol, decimal.RequireFromString("102.456"), decimal.NewFromInt(95), time.Time{}, nil)

		require.NoError(t, err)
		assert.True(t, p.ValidFrom.After(before))
		assert.Equal(t, "102.46", p.Price.StringFixed(2))
		assert.Equal(t, "7.46", p.Margin().StringFixed(2))
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeFuelPriceCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := NewFuelPrice(tenantID, stationID, station.FuelPetrol, decimal.Zero, decimal.Zero, time.Time{}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewFuelPrice(tenantID, stationID, station.FuelPetrol, decimal.NewFromInt(1), decimal.NewFromInt(-1), time.Time{}, nil)
		assert.Error(t, err)
	})
}

func TestCheckFresh(t *testing.T) {
	validFrom := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	p, err := NewFuelPrice(uuid.New(), uuid.New(), station.FuelDiesel, decimal.NewFromInt(90), decimal.Zero, validFrom, nil)
	require.NoError(t, err)

	assert.NoError(t, p.CheckFresh(validFrom.Add(6*24*time.Hour)))
	assert.NoError(t, p.CheckFresh(validFrom.Add(MaxPriceAge)))

	err = p.CheckFresh(validFrom.Add(MaxPriceAge + time.Minute))
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodePriceOutdated, de.Code)
}
