package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 17, 45, 0, 0, time.UTC)
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, today, PeriodDaily.Since(now))
	assert.Equal(t, today.AddDate(0, 0, -7), PeriodWeekly.Since(now))
	assert.Equal(t, today.AddDate(0, 0, -30), PeriodMonthly.Since(now))
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), PeriodYearly.Since(now))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, p)

	_, err = ParsePeriod("hourly")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	rows := []SaleRow{
		{Amount: decimal.RequireFromString("100.50"), Volume: decimal.RequireFromString("1.005"), Profit: decimal.RequireFromString("5")},
		{Amount: decimal.RequireFromString("49.50"), Volume: decimal.RequireFromString("0.5"), Profit: decimal.RequireFromString("2.5")},
	}

	totals := Summarize(rows)
	assert.Equal(t, "150", totals.Amount.String())
	assert.Equal(t, "1.505", totals.Volume.String())
	assert.Equal(t, "7.5", totals.Profit.String())
	assert.Equal(t, int64(2), totals.Count)
	assert.Equal(t, "5", ProfitMargin(totals.Profit, totals.Amount).String())
	assert.True(t, ProfitMargin(decimal.NewFromInt(1), decimal.Zero).IsZero())
}

func TestFillTrend(t *testing.T) {
	since := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)
	days := FillDays([]TrendPoint{{Key: "2024-03-14", Amount: decimal.NewFromInt(10), Count: 1}}, since, until)
	require.Len(t, days, 3)
	assert.Equal(t, "2024-03-13", days[0].Key)
	assert.True(t, days[0].Amount.IsZero())
	assert.Equal(t, int64(1), days[1].Count)
	assert.Equal(t, "2024-03-15", days[2].Key)

	hours := FillHours([]TrendPoint{{Key: "07", Count: 3}})
	require.Len(t, hours, 24)
	assert.Equal(t, "00", hours[0].Key)
	assert.Equal(t, int64(3), hours[7].Count)
}

func TestPeriodNext(t *testing.T) {
	friday := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 22, 23, 59, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), PeriodDaily.Next(friday))
	assert.Equal(t, monday, PeriodWeekly.Next(friday))
	assert.Equal(t, monday, PeriodWeekly.Next(sunday))
	assert.Equal(t, monday.AddDate(0, 0, 7), PeriodWeekly.Next(monday), "a boundary is not after itself")
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Next(friday))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Next(time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), PeriodYearly.Next(friday))
}

func TestNewSchedule(t *testing.T) {
	tenantID := uuid.New()
	stationID := uuid.New()
	now := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

	s, err := NewSchedule(tenantID, &stationID, ScheduleSales, PeriodWeekly, nil, now)
	require.NoError(t, err)
	assert.Equal(t, tenantID, s.TenantID)
	assert.Equal(t, &stationID, s.StationID)
	assert.Equal(t, time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC), s.NextRunAt)

	_, err = NewSchedule(tenantID, nil, ScheduleFinancial, PeriodYearly, nil, now)
	assert.Error(t, err, "yearly reports are not scheduled")

	_, err = NewSchedule(tenantID, nil, ScheduleType("inventory"), PeriodDaily, nil, now)
	assert.Error(t, err)
}
