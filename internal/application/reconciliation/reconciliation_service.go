package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService closes station days by comparing recorded sales
// against declared collections
type ReconciliationService struct {
	repos     unitofwork.Repositories
	txScope   unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewReconciliationService creates a reconciliation service. publisher may be nil.
func NewReconciliationService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{repos: repos, txScope: txScope, publisher: publisher, logger: logger}
}

// Run reconciles and finalizes one station day. Expected totals are the
// day's posted sales per payment method, declared totals the sum of the
// day's cash reports.
func (s *ReconciliationService) Run(ctx context.Context, actor access.Actor, stationID uuid.UUID, date time.Time) (*ReconciliationDTO, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := shared.Day(date)

	var (
		result *reconciliation.DayReconciliation
		events unitofwork.Events
	)
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		// waits for in-flight day writers; later ones see the finalized day
		if _, err := repos.Stations().LockByID(ctx, actor.TenantID, stationID); err != nil {
			return err
		}
		existing, err := repos.Reconciliations().FindByDay(ctx, actor.TenantID, stationID, day.From)
		if err != nil {
			return err
		}
		byMethod, err := repos.Sales().TotalsByPaymentMethod(ctx, actor.TenantID, stationID, day.From, day.To)
		if err != nil {
			return err
		}
		declared, err := repos.CashReports().DeclaredTotals(ctx, actor.TenantID, stationID, day.From)
		if err != nil {
			return err
		}
		rec, err := reconciliation.Run(actor.TenantID, stationID, day.From,
			reconciliation.TotalsFromMethods(byMethod), declared, actor.UserRef(), existing)
		if err != nil {
			return err
		}
		if err := repos.Reconciliations().Save(ctx, rec); err != nil {
			return err
		}
		result = rec
		events.Collect(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Station day reconciled",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", stationID.String()),
		zap.String("date", result.Date.Format(time.DateOnly)),
		zap.String("difference", result.Difference.String()),
		zap.String("outcome", string(result.Outcome)))
	dto := ToReconciliationDTO(result)
	return &dto, nil
}

// Get returns the reconciliation of a station day
func (s *ReconciliationService) Get(ctx context.Context, actor access.Actor, stationID uuid.UUID, date time.Time) (*ReconciliationDTO, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	rec, err := s.repos.Reconciliations().FindByDay(ctx, actor.TenantID, stationID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Reconciliation not found")
	}
	dto := ToReconciliationDTO(rec)
	return &dto, nil
}

// GetByID returns one reconciliation
func (s *ReconciliationService) GetByID(ctx context.Context, actor access.Actor, id uuid.UUID) (*ReconciliationDTO, error) {
	rec, err := s.load(ctx, s.repos, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToReconciliationDTO(rec)
	return &dto, nil
}

// List returns recent reconciliations, newest day first
func (s *ReconciliationService) List(ctx context.Context, actor access.Actor, stationID *uuid.UUID, limit int) ([]ReconciliationDTO, error) {
	if stationID != nil {
		if err := actor.CheckStation(*stationID); err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	rows, err := s.repos.Reconciliations().FindAll(ctx, actor.TenantID, stationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ReconciliationDTO, 0, len(rows))
	for i := range rows {
		if !actor.CanAccess(rows[i].StationID) {
			continue
		}
		out = append(out, ToReconciliationDTO(&rows[i]))
	}
	return out, nil
}

// Approve records the approving user on a reconciliation
func (s *ReconciliationService) Approve(ctx context.Context, actor access.Actor, id uuid.UUID) (*ReconciliationDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Approval requires a user")
	}
	var out *reconciliation.DayReconciliation
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		rec, err := s.load(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := rec.Approve(actor.UserID); err != nil {
			return err
		}
		out = rec
		return repos.Reconciliations().Save(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Reconciliation approved",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("reconciliation_id", id.String()),
		zap.String("approved_by", actor.UserID.String()))
	dto := ToReconciliationDTO(out)
	return &dto, nil
}

// DailySummary lists every active reading of a station day with its sale
func (s *ReconciliationService) DailySummary(ctx context.Context, actor access.Actor, stationID uuid.UUID, date time.Time) (*DailySummary, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := shared.StartOfDay(date)
	rows, err := s.repos.Reconciliations().DailySummary(ctx, actor.TenantID, stationID, day)
	if err != nil {
		return nil, err
	}
	out := &DailySummary{StationID: stationID, Date: day.Format(time.DateOnly), Rows: rows, Volume: decimal.Zero, Amount: decimal.Zero}
	for _, r := range rows {
		out.Volume = out.Volume.Add(r.DeltaVolume)
		out.Amount = out.Amount.Add(r.SaleValue)
	}
	return out, nil
}

// PDF renders the printable sheet of a reconciliation
func (s *ReconciliationService) PDF(ctx context.Context, actor access.Actor, id uuid.UUID) (*Document, error) {
	rec, err := s.load(ctx, s.repos, actor, id)
	if err != nil {
		return nil, err
	}
	st, err := s.repos.Stations().FindByID(ctx, actor.TenantID, rec.StationID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Reconciliations().DailySummary(ctx, actor.TenantID, rec.StationID, rec.Date)
	if err != nil {
		return nil, err
	}

	sheet := &document.ReconciliationSheet{
		StationName: st.Name,
		Date:        rec.Date,
		TotalSales:  rec.TotalSales,
		Collected:   rec.TotalCollect,
		Difference:  rec.Difference,
		Outcome:     string(rec.Outcome),
		ApprovedAt:  rec.ApprovedAt,
		Methods: []document.MethodTotals{
			{Method: string(sales.PaymentCash), Expected: rec.Expected.Cash, Declared: rec.Declared.Cash},
			{Method: string(sales.PaymentCard), Expected: rec.Expected.Card, Declared: rec.Declared.Card},
			{Method: string(sales.PaymentUPI), Expected: rec.Expected.UPI, Declared: rec.Declared.UPI},
			{Method: string(sales.PaymentCredit), Expected: rec.Expected.Credit, Declared: rec.Declared.Credit},
		},
	}
	if tenant, err := s.repos.Tenants().FindByID(ctx, actor.TenantID); err == nil {
		sheet.TenantName = tenant.Name
	}
	if rec.ApprovedBy != nil {
		sheet.ApprovedBy = rec.ApprovedBy.String()
		if u, err := s.repos.Users().FindByID(ctx, actor.TenantID, *rec.ApprovedBy); err == nil {
			sheet.ApprovedBy = u.Name
		}
	}
	for _, r := range rows {
		sheet.Lines = append(sheet.Lines, document.ReconciliationLine{
			Nozzle:   fmt.Sprintf("%s / %d", r.PumpName, r.NozzleNumber),
			FuelType: r.FuelType,
			Previous: r.PreviousReading,
			Current:  r.CurrentReading,
			Volume:   r.DeltaVolume,
			Price:    r.PricePerLitre,
			Amount:   r.SaleValue,
			Method:   r.PaymentMethod,
			Recorded: r.RecordedAt,
		})
	}

	data, err := document.ReconciliationPDF(sheet)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    fmt.Sprintf("reconciliation-%s-%s.pdf", rec.StationID, rec.Date.Format(time.DateOnly)),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *ReconciliationService) load(ctx context.Context, repos unitofwork.Repositories, actor access.Actor, id uuid.UUID) (*reconciliation.DayReconciliation, error) {
	rec, err := repos.Reconciliations().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(rec.StationID); err != nil {
		return nil, err
	}
	return rec, nil
}
