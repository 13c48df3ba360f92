package credit

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreditorFilter narrows creditor listings
type CreditorFilter struct {
	shared.Filter
	StationID *uuid.UUID
	Status    CreditorStatus
	// StationIDs limits results to tenant-wide creditors and those bound
	// to these stations when non-nil
	StationIDs []uuid.UUID
}

// CreditorRepository persists creditors
type CreditorRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Creditor, error)
	// LockByID loads the creditor holding a row lock for balance updates
	LockByID(ctx context.Context, tenantID, id uuid.UUID) (*Creditor, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter CreditorFilter) ([]Creditor, int64, error)
	// TopOutstanding returns active creditors ordered by balance descending
	TopOutstanding(ctx context.Context, tenantID uuid.UUID, limit int) ([]Creditor, error)
	Save(ctx context.Context, c *Creditor) error
}

// PaymentRepository persists credit payments
type PaymentRepository interface {
	Save(ctx context.Context, p *Payment) error
	FindByCreditor(ctx context.Context, tenantID, creditorID uuid.UUID) ([]Payment, error)
}
