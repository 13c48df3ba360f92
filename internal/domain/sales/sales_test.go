package sales

import (
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewReading(t *testing.T) {
	tenantID, stationID, nozzleID := uuid.New(), uuid.New(), uuid.New()
	at := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	last, err := NewReading(tenantID, stationID, nozzleID, dec("1000.5"), at, PaymentCash, nil, nil, nil)
	require.NoError(t, err)

	t.Run("accepts equal reading", func(t *testing.T) {
		r, err := NewReading(tenantID, stationID, nozzleID, dec("1000.5"), at.Add(time.Hour), PaymentCash, nil, nil, last)
		require.NoError(t, err)
		assert.True(t, r.Delta(last).IsZero())
	})

	t.Run("computes delta to three places", func(t *testing.T) {
		r, err := NewReading(tenantID, stationID, nozzleID, dec("1042.12345"), at.Add(time.Hour), PaymentCash, nil, nil, last)
		require.NoError(t, err)
		assert.Equal(t, "41.623", r.Delta(last).StringFixed(3))
	})

	t.Run("rejects lower reading", func(t *testing.T) {
		_, err := NewReading(tenantID, stationID, nozzleID, dec("999.9"), at.Add(time.Hour), PaymentCash, nil, nil, last)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeReadingRegression, de.Code)
		assert.Contains(t, err.Error(), "Reading must be >= last reading")
	})

	t.Run("rejects earlier timestamp", func(t *testing.T) {
		_, err := NewReading(tenantID, stationID, nozzleID, dec("1001"), at.Add(-time.Hour), PaymentCash, nil, nil, last)
		assert.Error(t, err)
	})

	t.Run("first reading counts from zero", func(t *testing.T) {
		assert.Equal(t, "1000.500", last.Delta(nil).StringFixed(3))
	})
}

func TestReadingVoid(t *testing.T) {
	r, err := NewReading(uuid.New(), uuid.New(), uuid.New(), dec("10"), time.Now(), PaymentCash, nil, nil, nil)
	require.NoError(t, err)

	assert.Error(t, r.Void("  ", nil))
	require.NoError(t, r.Void("wrong nozzle", nil))
	assert.True(t, r.Voided)
	assert.NotNil(t, r.VoidedAt)
	assert.Len(t, r.GetDomainEvents(), 1)
	assert.Error(t, r.Void("again", nil))
}

func TestNewSale(t *testing.T) {
	creditor := uuid.New()

	t.Run("rounds amount to two places", func(t *testing.T) {
		s, err := NewSale(uuid.New(), SaleInput{
			Volume:        dec("41.623"),
			Price:         dec("102.5"),
			CostPrice:     dec("95"),
			PaymentMethod: PaymentCash,
			RecordedAt:    time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, "4266.36", s.Amount.StringFixed(2))
		assert.Equal(t, "312.17", s.Profit.StringFixed(2))
		assert.Equal(t, SaleStatusPosted, s.Status)
	})

	t.Run("credit needs creditor", func(t *testing.T) {
		_, err := NewSale(uuid.New(), SaleInput{Volume: dec("1"), Price: dec("1"), PaymentMethod: PaymentCredit})
		assert.Error(t, err)

		s, err := NewSale(uuid.New(), SaleInput{Volume: dec("1"), Price: dec("1"), PaymentMethod: PaymentCredit, CreditorID: &creditor})
		require.NoError(t, err)
		assert.Equal(t, &creditor, s.CreditorID)
	})
}

func TestResolvePaymentMethod(t *testing.T) {
	m, err := ResolvePaymentMethod("", true)
	require.NoError(t, err)
	assert.Equal(t, PaymentCredit, m)

	m, err = ResolvePaymentMethod("", false)
	require.NoError(t, err)
	assert.Equal(t, PaymentCash, m)

	m, err = ResolvePaymentMethod("upi", false)
	require.NoError(t, err)
	assert.Equal(t, PaymentUPI, m)

	_, err = ResolvePaymentMethod("credit", false)
	assert.Error(t, err)

	_, err = ResolvePaymentMethod("cheque", false)
	assert.Error(t, err)
}
