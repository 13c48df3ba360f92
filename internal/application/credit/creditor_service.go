package credit

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreditorService manages creditor accounts and their payments
type CreditorService struct {
	repos   unitofwork.Repositories
	txScope unitofwork.TransactionScope
	logger  *zap.Logger
}

// NewCreditorService creates a creditor service
func NewCreditorService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *CreditorService {
	return &CreditorService{repos: repos, txScope: txScope, logger: logger}
}

// Create adds a creditor. A nil StationID makes it usable at every station.
func (s *CreditorService) Create(ctx context.Context, actor access.Actor, input CreateCreditorInput) (*CreditorDTO, error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
		if _, err := s.repos.Stations().FindByID(ctx, actor.TenantID, *input.StationID); err != nil {
			return nil, err
		}
	} else if actor.Restricted() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station is required")
	}

	c, err := credit.NewCreditor(actor.TenantID, input.StationID, input.PartyName, input.CreditLimit)
	if err != nil {
		return nil, err
	}
	c.SetContact(input.ContactName, input.Phone, input.Email, input.Address)
	if err := s.repos.Creditors().Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Creditor created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("creditor_id", c.ID.String()),
		zap.String("party_name", c.PartyName))
	dto := ToCreditorDTO(c)
	return &dto, nil
}

// List returns a page of creditors visible to the actor
func (s *CreditorService) List(ctx context.Context, actor access.Actor, input CreditorListInput) (*shared.Paginated[CreditorDTO], error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	filter := credit.CreditorFilter{
		Filter:     shared.DefaultFilter(),
		StationID:  input.StationID,
		StationIDs: actor.StationScope(),
	}
	filter.Search = input.Search
	filter.OrderBy = "party_name"
	filter.OrderDir = "asc"
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = min(input.PageSize, 100)
	}
	switch credit.CreditorStatus(input.Status) {
	case "":
	case credit.CreditorActive, credit.CreditorInactive:
		filter.Status = credit.CreditorStatus(input.Status)
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid creditor status: %s", input.Status)
	}

	rows, total, err := s.repos.Creditors().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CreditorDTO, len(rows))
	for i := range rows {
		items[i] = ToCreditorDTO(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one creditor
func (s *CreditorService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*CreditorDTO, error) {
	c, err := s.load(ctx, s.repos, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToCreditorDTO(c)
	return &dto, nil
}

// Update applies a partial update. Lowering the limit below the current
// balance is allowed; further charges are then rejected.
func (s *CreditorService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateCreditorInput) (*CreditorDTO, error) {
	var out *credit.Creditor
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		c, err := s.lock(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if input.PartyName != nil {
			if err := c.Rename(*input.PartyName); err != nil {
				return err
			}
		}
		if input.ContactName != nil || input.Phone != nil || input.Email != nil || input.Address != nil {
			c.SetContact(
				valueOr(input.ContactName, c.ContactName),
				valueOr(input.Phone, c.Phone),
				valueOr(input.Email, c.Email),
				valueOr(input.Address, c.Address))
		}
		if input.CreditLimit != nil {
			if err := c.SetCreditLimit(*input.CreditLimit); err != nil {
				return err
			}
		}
		if input.Status != nil {
			switch credit.CreditorStatus(*input.Status) {
			case credit.CreditorActive:
				c.Status = credit.CreditorActive
			case credit.CreditorInactive:
				c.Deactivate()
			default:
				return shared.Errorf(shared.CodeInvalidInput, "Invalid creditor status: %s", *input.Status)
			}
		}
		out = c
		return repos.Creditors().Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	dto := ToCreditorDTO(out)
	return &dto, nil
}

// Delete deactivates the creditor; its history is kept
func (s *CreditorService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		c, err := s.lock(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		c.Deactivate()
		return repos.Creditors().Save(ctx, c)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Creditor deactivated",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("creditor_id", id.String()))
	return nil
}

// RecordPayment books a payment against the outstanding balance. The
// creditor row is locked so concurrent payments and charges serialize, and
// the creditor's station is share-locked so the day cannot close meanwhile.
func (s *CreditorService) RecordPayment(ctx context.Context, actor access.Actor, input CreatePaymentInput) (*PaymentResult, error) {
	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	var (
		payment  *credit.Payment
		creditor *credit.Creditor
	)
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		// station before creditor, the order readings and cash reports use
		c, err := s.load(ctx, repos, actor, input.CreditorID)
		if err != nil {
			return err
		}
		if c.StationID != nil {
			if err := unitofwork.HoldOpenDay(ctx, repos, actor.TenantID, *c.StationID, receivedAt); err != nil {
				return err
			}
		}
		if c, err = s.lock(ctx, repos, actor, input.CreditorID); err != nil {
			return err
		}
		p, err := credit.NewPayment(actor.TenantID, c.ID, input.Amount, input.PaymentMethod, input.ReferenceNo, input.Notes, receivedAt, actor.UserRef())
		if err != nil {
			return err
		}
		if err := c.ApplyPayment(p.Amount); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return err
		}
		if err := repos.Creditors().Save(ctx, c); err != nil {
			return err
		}
		payment, creditor = p, c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Credit payment recorded",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("creditor_id", creditor.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("balance", creditor.Balance.String()))
	return &PaymentResult{Payment: ToPaymentDTO(payment), Balance: creditor.Balance, Creditor: creditor.ID}, nil
}

// ListPayments returns a creditor's payments, newest first
func (s *CreditorService) ListPayments(ctx context.Context, actor access.Actor, creditorID uuid.UUID) ([]PaymentDTO, error) {
	if _, err := s.load(ctx, s.repos, actor, creditorID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Payments().FindByCreditor(ctx, actor.TenantID, creditorID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, len(rows))
	for i := range rows {
		out[i] = ToPaymentDTO(&rows[i])
	}
	return out, nil
}

func (s *CreditorService) load(ctx context.Context, repos unitofwork.Repositories, actor access.Actor, id uuid.UUID) (*credit.Creditor, error) {
	c, err := repos.Creditors().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return c, checkCreditor(actor, c)
}

func (s *CreditorService) lock(ctx context.Context, repos unitofwork.Repositories, actor access.Actor, id uuid.UUID) (*credit.Creditor, error) {
	c, err := repos.Creditors().LockByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return c, checkCreditor(actor, c)
}

func checkCreditor(actor access.Actor, c *credit.Creditor) error {
	if c.StationID == nil {
		return nil
	}
	return actor.CheckStation(*c.StationID)
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
