package station

import (
	"testing"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPlanLimit(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		limit   int
		wantErr bool
	}{
		{"below limit", 1, 2, false},
		{"empty", 0, 1, false},
		{"at limit", 2, 2, true},
		{"above limit", 5, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPlanLimit(LimitPumpsPerStation, tt.count, tt.limit)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
			assert.Contains(t, err.Error(), "Plan limit exceeded")
		})
	}
}

func TestUsageRemaining(t *testing.T) {
	assert.Equal(t, int64(3), Usage{Used: 2, Limit: 5}.Remaining())
	assert.Equal(t, int64(0), Usage{Used: 7, Limit: 5}.Remaining())
}

func TestNewNozzle(t *testing.T) {
	tenantID, pumpID := uuid.New(), uuid.New()

	n, err := NewNozzle(tenantID, pumpID, 1, FuelDiesel)
	require.NoError(t, err)
	assert.True(t, n.IsActive())

	_, err = NewNozzle(tenantID, pumpID, 0, FuelDiesel)
	assert.Error(t, err)

	_, err = NewNozzle(tenantID, pumpID, 1, "kerosene")
	assert.Error(t, err)

	require.NoError(t, n.Update(2, FuelPetrol, StatusMaintenance))
	assert.Equal(t, 2, n.NozzleNumber)
	assert.Equal(t, FuelPetrol, n.FuelType)
	assert.False(t, n.IsActive())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	_, err = ParseStatus("broken")
	assert.Error(t, err)
}
