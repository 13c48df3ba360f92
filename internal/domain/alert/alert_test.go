package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	stationID := uuid.New()

	a, err := New(uuid.New(), &stationID, TypeMissingPrice, "No diesel price", SeverityWarning, "diesel")
	require.NoError(t, err)
	assert.False(t, a.IsRead)
	assert.Equal(t, DedupKey(TypeMissingPrice, "diesel", a.CreatedAt), a.DedupKey)

	_, err = New(uuid.New(), nil, TypeMissingPrice, " ", SeverityWarning, "")
	assert.Error(t, err)

	_, err = New(uuid.New(), nil, TypeMissingPrice, "x", "urgent", "")
	assert.Error(t, err)
}

func TestDedupKeyIsPerDay(t *testing.T) {
	morning := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 2, 22, 0, 0, 0, time.UTC)
	nextDay := morning.AddDate(0, 0, 1)

	assert.Equal(t, DedupKey(TypeReadingJump, "n1", morning), DedupKey(TypeReadingJump, "n1", evening))
	assert.NotEqual(t, DedupKey(TypeReadingJump, "n1", morning), DedupKey(TypeReadingJump, "n1", nextDay))
	assert.NotEqual(t, DedupKey(TypeReadingJump, "n1", morning), DedupKey(TypeReadingJump, "n2", morning))
}

func TestAcknowledge(t *testing.T) {
	a, err := New(uuid.New(), nil, TypeLowInventory, "Low diesel", SeverityCritical, "")
	require.NoError(t, err)

	a.Acknowledge()
	require.NotNil(t, a.ReadAt)
	first := *a.ReadAt

	a.Acknowledge()
	assert.Equal(t, first, *a.ReadAt)
}
