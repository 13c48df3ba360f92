package reconciliation

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cashReportListLimit is how many reports a listing returns
const cashReportListLimit = 30

// CashReportService files attendant cash reports
type CashReportService struct {
	repos     unitofwork.Repositories
	txScope   unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCashReportService creates a cash report service. publisher may be nil.
func NewCashReportService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *CashReportService {
	return &CashReportService{repos: repos, txScope: txScope, publisher: publisher, logger: logger, now: time.Now}
}

// Create stores a cash report. Each credit entry becomes a credit sale on a
// nozzle of its fuel type and is charged to the creditor; the report's
// credit amount is the sum of those sales.
func (s *CashReportService) Create(ctx context.Context, actor access.Actor, input CreateCashReportInput) (*CashReportDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Cash reports require a user")
	}
	if err := actor.CheckStation(input.StationID); err != nil {
		return nil, err
	}
	now := s.now()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	day := shared.Day(date)
	if day.From.After(now) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Report date cannot be in the future")
	}
	// credit sales are priced at the end of the reported day, or now for today
	pricedAt := day.To.Add(-time.Second)
	if pricedAt.After(now) {
		pricedAt = now
	}

	var (
		report *reconciliation.CashReport
		events unitofwork.Events
	)
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if err := unitofwork.HoldOpenDay(ctx, repos, actor.TenantID, input.StationID, day.From); err != nil {
			return err
		}

		r, err := reconciliation.NewCashReport(actor.TenantID, input.StationID, actor.UserID, day.From,
			reconciliation.Shift(input.Shift), input.CashAmount, input.CardAmount, input.UPIAmount, input.Notes)
		if err != nil {
			return err
		}
		for _, in := range input.CreditEntries {
			sale, err := s.creditSale(ctx, repos, actor, input.StationID, pricedAt, in, &events)
			if err != nil {
				return err
			}
			r.AddCredit(sale.Amount)
		}
		if err := repos.CashReports().Save(ctx, r); err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Cash report filed",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", input.StationID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.String("total", report.Total().String()),
		zap.Int("credit_entries", len(input.CreditEntries)))
	dto := ToCashReportDTO(report)
	return &dto, nil
}

// creditSale records one declared credit entry as a posted credit sale.
// Tank stock is left alone: the fuel was dispensed through a nozzle whose
// reading already took it out.
func (s *CashReportService) creditSale(ctx context.Context, repos unitofwork.Repositories, actor access.Actor, stationID uuid.UUID, at time.Time, in CreditEntryInput, events *unitofwork.Events) (*sales.Sale, error) {
	entry := reconciliation.CreditEntry{CreditorID: in.CreditorID, FuelType: in.FuelType, Litres: in.Litres, Amount: in.Amount}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	fuel, err := station.ParseFuelType(in.FuelType)
	if err != nil {
		return nil, err
	}
	nozzles, err := repos.Nozzles().FindAll(ctx, actor.TenantID, station.NozzleFilter{
		StationID: &stationID,
		FuelType:  fuel,
		Status:    station.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	if len(nozzles) == 0 {
		return nil, shared.Errorf(shared.CodeInvalidInput, "No active %s nozzle at this station", fuel)
	}
	price, err := repos.Prices().PriceAt(ctx, actor.TenantID, stationID, fuel, at)
	if err != nil {
		return nil, err
	}
	litres, _ := entry.Quantities(price.Price)

	creditorID := in.CreditorID
	sale, err := sales.NewSale(actor.TenantID, sales.SaleInput{
		NozzleID:      nozzles[0].ID,
		StationID:     stationID,
		FuelType:      string(fuel),
		Volume:        litres,
		Price:         price.Price,
		CostPrice:     price.CostPrice,
		PaymentMethod: sales.PaymentCredit,
		CreditorID:    &creditorID,
		RecordedAt:    at,
		CreatedBy:     actor.UserRef(),
	})
	if err != nil {
		return nil, err
	}

	creditor, err := repos.Creditors().LockByID(ctx, actor.TenantID, creditorID)
	if err != nil {
		return nil, err
	}
	if creditor.StationID != nil && *creditor.StationID != stationID {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Creditor belongs to another station")
	}
	if err := creditor.Charge(sale.Amount, stationID); err != nil {
		return nil, err
	}
	if err := repos.Creditors().Save(ctx, creditor); err != nil {
		return nil, err
	}
	if err := repos.Sales().Save(ctx, sale); err != nil {
		return nil, err
	}
	events.Collect(creditor)
	return sale, nil
}

// List returns the latest reports. Attendants only ever see their own.
func (s *CashReportService) List(ctx context.Context, actor access.Actor, input CashReportListInput) ([]CashReportDTO, error) {
	filter := reconciliation.CashReportFilter{StationID: input.StationID, Limit: cashReportListLimit}
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	if input.Mine || actor.HasRole(identity.RoleAttendant) {
		userID := actor.UserID
		filter.UserID = &userID
	}
	rows, err := s.repos.CashReports().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CashReportDTO, 0, len(rows))
	for i := range rows {
		if !actor.CanAccess(rows[i].StationID) {
			continue
		}
		out = append(out, ToCashReportDTO(&rows[i]))
	}
	return out, nil
}
