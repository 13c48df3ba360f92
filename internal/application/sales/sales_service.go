package sales

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService lists and aggregates sales
type SaleService struct {
	repos  unitofwork.Repositories
	logger *zap.Logger
}

// NewSaleService creates a sale service
func NewSaleService(repos unitofwork.Repositories, logger *zap.Logger) *SaleService {
	return &SaleService{repos: repos, logger: logger}
}

// List returns a page of sales, newest first
func (s *SaleService) List(ctx context.Context, actor access.Actor, input SaleListInput) (*shared.Paginated[SaleDTO], error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	filter := sales.SaleFilter{
		Filter:     shared.DefaultFilter(),
		StationID:  input.StationID,
		From:       input.From,
		To:         input.To,
		StationIDs: actor.StationScope(),
	}
	filter.OrderBy = "recorded_at"
	filter.PageSize = DefaultSalesPageSize
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = min(input.PageSize, 500)
	}
	if input.PaymentMethod != "" {
		method, err := sales.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			return nil, err
		}
		filter.PaymentMethod = method
	}

	views, total, err := s.repos.Sales().FindViews(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleDTO, len(views))
	for i := range views {
		items[i] = ToSaleViewDTO(&views[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Analytics totals posted sales over a range grouped by one dimension.
// Actors bound to stations must name one of theirs; a single assignment is
// used implicitly.
func (s *SaleService) Analytics(ctx context.Context, actor access.Actor, input AnalyticsInput) (*AnalyticsResult, error) {
	by, err := sales.ParseGroupBy(input.GroupBy)
	if err != nil {
		return nil, err
	}
	stationID, err := actor.ResolveStation(input.StationID)
	if err != nil {
		return nil, err
	}
	to := input.To
	if to.IsZero() {
		to = time.Now()
	}
	from := input.From
	if from.IsZero() {
		from = shared.StartOfDay(to).AddDate(0, 0, -29)
	}
	if from.After(to) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "From must not be after to")
	}

	groups, err := s.repos.Sales().Aggregate(ctx, actor.TenantID, by, from, to, stationID)
	if err != nil {
		return nil, err
	}
	out := &AnalyticsResult{GroupBy: string(by), From: from, To: to, Groups: groups, Volume: decimal.Zero, Amount: decimal.Zero}
	for _, g := range groups {
		out.Volume = out.Volume.Add(g.Volume)
		out.Amount = out.Amount.Add(g.Amount)
		out.Count += g.Count
	}
	return out, nil
}
