package unitofwork

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// HoldOpenDay takes a shared lock on the station and fails with
// shared.ErrDayFinalized when the station day containing at is closed. The
// lock is held until the transaction ends, so a reconciliation of the same
// station waits for the writer and then sees its rows.
func HoldOpenDay(ctx context.Context, repos Repositories, tenantID, stationID uuid.UUID, at time.Time) error {
	if _, err := repos.Stations().ShareByID(ctx, tenantID, stationID); err != nil {
		return err
	}
	finalized, err := repos.Reconciliations().IsFinalized(ctx, tenantID, stationID, at)
	if err != nil {
		return err
	}
	if finalized {
		return shared.ErrDayFinalized
	}
	return nil
}
