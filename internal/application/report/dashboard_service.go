package report

import (
	"context"
	"sort"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 90
	topCreditors     = 5
	peakHourCount    = 3
)

var hundred = decimal.NewFromInt(100)

// DashboardService builds the dashboard and sales analytics
type DashboardService struct {
	repos  unitofwork.Repositories
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(repos unitofwork.Repositories, logger *zap.Logger) *DashboardService {
	return &DashboardService{repos: repos, logger: logger, now: time.Now}
}

// Dashboard summarises today, the current month and the last days
func (s *DashboardService) Dashboard(ctx context.Context, actor access.Actor, input DashboardInput) (*Dashboard, error) {
	stationID, err := actor.ResolveStation(input.StationID)
	if err != nil {
		return nil, err
	}
	days := input.Days
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	now := s.now().UTC()
	today := shared.Day(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	trendStart := today.From.AddDate(0, 0, -(days - 1))
	reports := s.repos.Reports()

	out := &Dashboard{}
	if out.Today, err = reports.Totals(ctx, actor.TenantID, report.SalesFilter{StationID: stationID, From: today.From, To: today.To}); err != nil {
		return nil, err
	}
	if out.Month, err = reports.Totals(ctx, actor.TenantID, report.SalesFilter{StationID: stationID, From: monthStart, To: today.To}); err != nil {
		return nil, err
	}
	if out.PaymentMethods, err = s.repos.Sales().Aggregate(ctx, actor.TenantID, sales.GroupByPaymentMethod, monthStart, today.To, stationID); err != nil {
		return nil, err
	}
	if out.FuelTypes, err = s.repos.Sales().Aggregate(ctx, actor.TenantID, sales.GroupByFuelType, monthStart, today.To, stationID); err != nil {
		return nil, err
	}
	trend, err := reports.Trend(ctx, actor.TenantID, report.SalesFilter{StationID: stationID, From: trendStart, To: today.To}, report.BucketDay)
	if err != nil {
		return nil, err
	}
	out.Trend = report.FillDays(trend, trendStart, today.From)

	creditors, err := s.repos.Creditors().TopOutstanding(ctx, actor.TenantID, topCreditors*4)
	if err != nil {
		return nil, err
	}
	out.TopCreditors = make([]CreditorBalance, 0, topCreditors)
	for i := range creditors {
		c := &creditors[i]
		if c.StationID != nil && stationID != nil && *c.StationID != *stationID {
			continue
		}
		if c.StationID != nil && !actor.CanAccess(*c.StationID) {
			continue
		}
		out.TopCreditors = append(out.TopCreditors, CreditorBalance{
			ID:          c.ID,
			PartyName:   c.PartyName,
			Balance:     c.Balance,
			CreditLimit: c.CreditLimit,
			Utilization: c.Utilization(),
		})
		if len(out.TopCreditors) == topCreditors {
			break
		}
	}
	return out, nil
}

// Analytics breaks a window down by hour of day, fuel type and station
func (s *DashboardService) Analytics(ctx context.Context, actor access.Actor, input AnalyticsInput) (*Analytics, error) {
	stationID, err := actor.ResolveStation(input.StationID)
	if err != nil {
		return nil, err
	}
	from, to, err := window(input.From, input.To, s.now())
	if err != nil {
		return nil, err
	}

	out := &Analytics{From: from, To: to}
	hourly, err := s.repos.Reports().Trend(ctx, actor.TenantID, report.SalesFilter{StationID: stationID, From: from, To: to}, report.BucketHour)
	if err != nil {
		return nil, err
	}
	out.Hourly = report.FillHours(hourly)
	out.PeakHours = peakHours(hourly, peakHourCount)

	if out.FuelPerformance, err = s.repos.Sales().Aggregate(ctx, actor.TenantID, sales.GroupByFuelType, from, to, stationID); err != nil {
		return nil, err
	}
	stations, err := s.repos.Sales().Aggregate(ctx, actor.TenantID, sales.GroupByStation, from, to, stationID)
	if err != nil {
		return nil, err
	}
	out.Stations = rankStations(actor, stations)
	return out, nil
}

// peakHours returns the n busiest hours by amount
func peakHours(points []report.TrendPoint, n int) []report.TrendPoint {
	sorted := make([]report.TrendPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// rankStations orders the accessible stations by amount and computes each
// one's share of the total
func rankStations(actor access.Actor, groups []sales.Aggregate) []StationRank {
	total := decimal.Zero
	visible := make([]sales.Aggregate, 0, len(groups))
	for _, g := range groups {
		if actor.Restricted() && !canAccessKey(actor, g.Key) {
			continue
		}
		visible = append(visible, g)
		total = total.Add(g.Amount)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Amount.GreaterThan(visible[j].Amount)
	})
	out := make([]StationRank, len(visible))
	for i, g := range visible {
		share := decimal.Zero
		if total.IsPositive() {
			share = g.Amount.Div(total).Mul(hundred).Round(1)
		}
		out[i] = StationRank{
			Rank:        i + 1,
			StationID:   g.Key,
			StationName: g.Label,
			Amount:      g.Amount,
			Volume:      g.Volume,
			Profit:      g.Profit,
			Count:       g.Count,
			Share:       share,
		}
	}
	return out
}

func canAccessKey(actor access.Actor, key string) bool {
	for _, id := range actor.StationIDs {
		if id.String() == key {
			return true
		}
	}
	return false
}
