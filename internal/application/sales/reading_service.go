package sales

import (
	"context"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxClockSkew is how far in the future a reading time may lie
const maxClockSkew = 5 * time.Minute

var (
	errNozzleClosed  = shared.NewDomainError(shared.CodeInvalidState, "Nozzle is not active")
	errNotLatest     = shared.NewDomainError(shared.CodeInvalidState, "Only the latest reading of a nozzle can be voided")
	errFutureReading = shared.NewDomainError(shared.CodeInvalidInput, "Reading time cannot be in the future")
)

// ReadingService records nozzle readings and derives their sales
type ReadingService struct {
	repos     unitofwork.Repositories
	txScope   unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewReadingService creates a reading service. publisher may be nil.
func NewReadingService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *ReadingService {
	return &ReadingService{repos: repos, txScope: txScope, publisher: publisher, logger: logger, now: time.Now}
}

// Create stores a reading and the sale it implies in one transaction. The
// nozzle row is locked first so readings of one nozzle are strictly ordered.
func (s *ReadingService) Create(ctx context.Context, actor access.Actor, input CreateReadingInput) (*RecordedReading, error) {
	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	if recordedAt.After(s.now().Add(maxClockSkew)) {
		return nil, errFutureReading
	}
	method, err := sales.ResolvePaymentMethod(input.PaymentMethod, input.CreditorID != nil)
	if err != nil {
		return nil, err
	}

	var (
		reading *sales.Reading
		sale    *sales.Sale
		events  unitofwork.Events
	)
	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		loc, err := repos.Nozzles().LockLocation(ctx, actor.TenantID, input.NozzleID)
		if err != nil {
			return err
		}
		if err := actor.CheckStation(loc.StationID); err != nil {
			return err
		}
		if !loc.IsActive() {
			return errNozzleClosed
		}

		last, err := repos.Readings().LastActive(ctx, actor.TenantID, loc.ID)
		if err != nil {
			return err
		}
		reading, err = sales.NewReading(actor.TenantID, loc.StationID, loc.ID, input.Reading, recordedAt, method, input.CreditorID, actor.UserRef(), last)
		if err != nil {
			return err
		}
		if err := unitofwork.HoldOpenDay(ctx, repos, actor.TenantID, loc.StationID, reading.RecordedAt); err != nil {
			return err
		}

		price, err := repos.Prices().PriceAt(ctx, actor.TenantID, loc.StationID, loc.FuelType, reading.RecordedAt)
		if err != nil {
			return err
		}
		if err := price.CheckFresh(reading.RecordedAt); err != nil {
			return err
		}

		readingID := reading.ID
		sale, err = sales.NewSale(actor.TenantID, sales.SaleInput{
			ReadingID:     &readingID,
			NozzleID:      loc.ID,
			StationID:     loc.StationID,
			FuelType:      string(loc.FuelType),
			Volume:        reading.Delta(last),
			Price:         price.Price,
			CostPrice:     price.CostPrice,
			PaymentMethod: method,
			CreditorID:    input.CreditorID,
			RecordedAt:    reading.RecordedAt,
			CreatedBy:     actor.UserRef(),
		})
		if err != nil {
			return err
		}

		if input.CreditorID != nil {
			creditor, err := chargeCreditor(ctx, repos, actor.TenantID, *input.CreditorID, loc.StationID, sale)
			if err != nil {
				return err
			}
			events.Collect(creditor)
		}

		if err := repos.Readings().Save(ctx, reading); err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		tank, err := dispense(ctx, repos, actor.TenantID, loc.StationID, loc.FuelType, sale)
		if err != nil {
			return err
		}
		events.Collect(tank)

		reading.AddDomainEvent(sales.NewReadingRecordedEvent(reading, sale))
		events.Collect(reading)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Reading recorded",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("nozzle_id", input.NozzleID.String()),
		zap.String("reading", reading.Reading.String()),
		zap.String("volume", sale.Volume.String()),
		zap.String("amount", sale.Amount.String()))
	return &RecordedReading{Reading: ToReadingDTO(reading), Sale: ToSaleDTO(sale)}, nil
}

// chargeCreditor locks the creditor, books the sale amount on its balance
// and saves it. The creditor must belong to the sale's station when it is
// bound to one.
func chargeCreditor(ctx context.Context, repos unitofwork.Repositories, tenantID, creditorID, stationID uuid.UUID, sale *sales.Sale) (*credit.Creditor, error) {
	creditor, err := repos.Creditors().LockByID(ctx, tenantID, creditorID)
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
	return creditor, nil
}

// dispense takes the sold volume out of the station's tank
func dispense(ctx context.Context, repos unitofwork.Repositories, tenantID, stationID uuid.UUID, fuel station.FuelType, sale *sales.Sale) (*inventory.Inventory, error) {
	tank, err := repos.Inventory().LockOrCreate(ctx, tenantID, stationID, fuel)
	if err != nil {
		return nil, err
	}
	tank.Dispense(sale.Volume)
	if err := repos.Inventory().Save(ctx, tank); err != nil {
		return nil, err
	}
	return tank, nil
}

// CanCreate reports whether a reading can be recorded for a nozzle right
// now: the nozzle must be active, priced and its station day still open
func (s *ReadingService) CanCreate(ctx context.Context, actor access.Actor, nozzleID uuid.UUID) (*Eligibility, error) {
	loc, err := s.repos.Nozzles().FindLocation(ctx, actor.TenantID, nozzleID)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(loc.StationID); err != nil {
		return nil, err
	}

	out := &Eligibility{}
	last, err := s.repos.Readings().LastActive(ctx, actor.TenantID, nozzleID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		out.LastReading = &last.Reading
	}
	if !loc.IsActive() {
		out.Reason = errNozzleClosed.Message
		return out, nil
	}

	now := s.now()
	price, err := s.repos.Prices().PriceAt(ctx, actor.TenantID, loc.StationID, loc.FuelType, now)
	switch {
	case errors.Is(err, pricing.ErrPriceNotFound):
		out.Reason = err.Error()
		return out, nil
	case err != nil:
		return nil, err
	}
	out.CurrentPrice = &price.Price
	if err := price.CheckFresh(now); err != nil {
		out.Reason = err.Error()
		return out, nil
	}

	finalized, err := s.repos.Reconciliations().IsFinalized(ctx, actor.TenantID, loc.StationID, now)
	if err != nil {
		return nil, err
	}
	if finalized {
		out.Reason = shared.ErrDayFinalized.Message
		return out, nil
	}
	out.Allowed = true
	return out, nil
}

// List returns readings with their previous reading, newest first
func (s *ReadingService) List(ctx context.Context, actor access.Actor, input ReadingListInput) ([]ReadingViewDTO, error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	limit := input.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	views, err := s.repos.Readings().FindViews(ctx, actor.TenantID, sales.ReadingFilter{
		NozzleID:   input.NozzleID,
		StationID:  input.StationID,
		From:       input.From,
		To:         input.To,
		Limit:      limit,
		StationIDs: actor.StationScope(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]ReadingViewDTO, len(views))
	for i := range views {
		out[i] = ToReadingViewDTO(&views[i])
	}
	return out, nil
}

// Get returns one reading
func (s *ReadingService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*ReadingDTO, error) {
	r, err := s.repos.Readings().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(r.StationID); err != nil {
		return nil, err
	}
	dto := ToReadingDTO(r)
	return &dto, nil
}

// Void invalidates the latest reading of a nozzle. Its sale is voided, a
// credit charge is refunded and the volume goes back into the tank.
func (s *ReadingService) Void(ctx context.Context, actor access.Actor, id uuid.UUID, reason string) (*ReadingDTO, error) {
	var (
		reading *sales.Reading
		events  unitofwork.Events
	)
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		r, err := repos.Readings().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if err := actor.CheckStation(r.StationID); err != nil {
			return err
		}
		if _, err := repos.Nozzles().LockLocation(ctx, actor.TenantID, r.NozzleID); err != nil {
			return err
		}
		latest, err := repos.Readings().LastActive(ctx, actor.TenantID, r.NozzleID)
		if err != nil {
			return err
		}
		if latest == nil || latest.ID != r.ID {
			return errNotLatest
		}
		if err := unitofwork.HoldOpenDay(ctx, repos, actor.TenantID, r.StationID, r.RecordedAt); err != nil {
			return err
		}
		if err := r.Void(reason, actor.UserRef()); err != nil {
			return err
		}
		if err := repos.Readings().Save(ctx, r); err != nil {
			return err
		}

		sale, err := repos.Sales().FindByReading(ctx, actor.TenantID, r.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return err
		case sale.Status == sales.SaleStatusPosted:
			if err := reverseSale(ctx, repos, actor.TenantID, sale); err != nil {
				return err
			}
		}

		reading = r
		events.Collect(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Reading voided",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("reading_id", id.String()),
		zap.String("reason", reading.VoidReason))
	dto := ToReadingDTO(reading)
	return &dto, nil
}

func reverseSale(ctx context.Context, repos unitofwork.Repositories, tenantID uuid.UUID, sale *sales.Sale) error {
	sale.Void()
	if err := repos.Sales().Save(ctx, sale); err != nil {
		return err
	}
	if sale.CreditorID != nil && sale.PaymentMethod == sales.PaymentCredit {
		creditor, err := repos.Creditors().LockByID(ctx, tenantID, *sale.CreditorID)
		if err != nil {
			return err
		}
		creditor.Refund(sale.Amount)
		if err := repos.Creditors().Save(ctx, creditor); err != nil {
			return err
		}
	}
	fuel, err := station.ParseFuelType(sale.FuelType)
	if err != nil {
		return err
	}
	tank, err := repos.Inventory().LockOrCreate(ctx, tenantID, sale.StationID, fuel)
	if err != nil {
		return err
	}
	tank.Receive(sale.Volume)
	return repos.Inventory().Save(ctx, tank)
}
