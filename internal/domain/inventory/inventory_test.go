package inventory

import (
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassify(t *testing.T) {
	minimum := dec("1000")

	assert.Equal(t, StockLow, Classify(dec("1000"), minimum))
	assert.Equal(t, StockLow, Classify(dec("10"), minimum))
	assert.Equal(t, StockMedium, Classify(dec("1000.001"), minimum))
	assert.Equal(t, StockMedium, Classify(dec("1500"), minimum))
	assert.Equal(t, StockGood, Classify(dec("1500.5"), minimum))
}

func TestSetLevelsRaisesLowEvent(t *testing.T) {
	inv := NewInventory(uuid.New(), uuid.New(), station.FuelDiesel)

	require.NoError(t, inv.SetLevels(dec("5000"), dec("1000"), nil))
	assert.Empty(t, inv.GetDomainEvents())

	require.NoError(t, inv.SetLevels(dec("800"), dec("1000"), nil))
	require.Len(t, inv.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeInventoryLow, inv.GetDomainEvents()[0].EventType())

	assert.Error(t, inv.SetLevels(dec("-1"), dec("1000"), nil))
}

func TestDispense(t *testing.T) {
	inv := NewInventory(uuid.New(), uuid.New(), station.FuelPetrol)
	require.NoError(t, inv.SetLevels(dec("1200"), dec("1000"), nil))

	inv.Dispense(dec("150"))
	assert.Empty(t, inv.GetDomainEvents())

	inv.Dispense(dec("100"))
	assert.Len(t, inv.GetDomainEvents(), 1, "crossing the minimum raises once")

	inv.Dispense(dec("100"))
	assert.Len(t, inv.GetDomainEvents(), 1, "already low stays quiet")

	inv.Dispense(dec("5000"))
	assert.True(t, inv.CurrentStock.IsZero())

	inv.Receive(dec("2500.5"))
	assert.Equal(t, StockGood, inv.Status())
}

func TestNewDelivery(t *testing.T) {
	d, err := NewDelivery(uuid.New(), uuid.New(), station.FuelPetrol, dec("12000"), time.Time{}, "IOCL", "INV-1", nil)
	require.NoError(t, err)
	assert.False(t, d.DeliveredAt.IsZero())

	_, err = NewDelivery(uuid.New(), uuid.New(), station.FuelPetrol, decimal.Zero, time.Time{}, "", "", nil)
	assert.Error(t, err)
}
