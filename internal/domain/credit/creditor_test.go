package credit

import (
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreditor(t *testing.T, limit int64) *Creditor {
	t.Helper()
	c, err := NewCreditor(uuid.New(), nil, "Patel Transport", decimal.NewFromInt(limit))
	require.NoError(t, err)
	return c
}

func TestCreditorCharge(t *testing.T) {
	stationID := uuid.New()

	t.Run("charges within limit without alert", func(t *testing.T) {
		c := newCreditor(t, 1000)
		require.NoError(t, c.Charge(decimal.NewFromInt(500), stationID))

		assert.Equal(t, "500", c.Balance.String())
		assert.Empty(t, c.GetDomainEvents())
	})

	t.Run("raises near limit event at ninety percent", func(t *testing.T) {
		c := newCreditor(t, 1000)
		require.NoError(t, c.Charge(decimal.NewFromInt(900), stationID))

		require.Len(t, c.GetDomainEvents(), 1)
		evt := c.GetDomainEvents()[0].(*CreditorNearLimitEvent)
		assert.Equal(t, stationID, evt.StationID)
		assert.Equal(t, "90", c.Utilization().String())
	})

	t.Run("allows reaching the limit exactly", func(t *testing.T) {
		c := newCreditor(t, 1000)
		assert.NoError(t, c.Charge(decimal.NewFromInt(1000), stationID))
	})

	t.Run("rejects exceeding the limit", func(t *testing.T) {
		c := newCreditor(t, 1000)
		require.NoError(t, c.Charge(decimal.NewFromInt(600), stationID))

		err := c.Charge(decimal.RequireFromString("400.01"), stationID)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeCreditLimit, de.Code)
		assert.Equal(t, "600", c.Balance.String(), "rejected charge leaves balance untouched")
	})

	t.Run("rejects inactive creditor", func(t *testing.T) {
		c := newCreditor(t, 1000)
		c.Deactivate()
		assert.Error(t, c.Charge(decimal.NewFromInt(1), stationID))
	})
}

func TestCreditorApplyPayment(t *testing.T) {
	c := newCreditor(t, 1000)
	require.NoError(t, c.Charge(decimal.NewFromInt(300), uuid.New()))

	assert.Error(t, c.ApplyPayment(decimal.Zero))
	assert.Error(t, c.ApplyPayment(decimal.NewFromInt(301)))
	require.NoError(t, c.ApplyPayment(decimal.NewFromInt(120)))
	assert.Equal(t, "180", c.Balance.String())

	c.Refund(decimal.NewFromInt(500))
	assert.True(t, c.Balance.IsZero())
}

func TestNewPayment(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), decimal.RequireFromString("10.005"), "", " UTR-1 ", "", time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "cash", p.PaymentMethod)
	assert.Equal(t, "UTR-1", p.ReferenceNo)
	assert.Equal(t, "10.01", p.Amount.StringFixed(2))

	_, err = NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(-5), "cash", "", "", time.Time{}, nil)
	assert.Error(t, err)
}
