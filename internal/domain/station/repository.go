package station

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StationSummary is a station with its pump count
type StationSummary struct {
	Station
	PumpCount int64
}

// PumpSummary is a pump with its nozzle count
type PumpSummary struct {
	Pump
	NozzleCount int64
}

// StationRepository persists stations
type StationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Station, error)
	// LockByID loads the station holding an exclusive row lock. Closing a
	// station day takes it so no day writer can commit underneath.
	LockByID(ctx context.Context, tenantID, id uuid.UUID) (*Station, error)
	// ShareByID loads the station holding a shared row lock. Writers into
	// a station day take it before checking that the day is still open.
	ShareByID(ctx context.Context, tenantID, id uuid.UUID) (*Station, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StationSummary, int64, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Station, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, station *Station) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PumpRepository persists pumps
type PumpRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Pump, error)
	FindByStation(ctx context.Context, tenantID, stationID uuid.UUID) ([]PumpSummary, error)
	FindInMaintenance(ctx context.Context, tenantID uuid.UUID) ([]Pump, error)
	CountByStation(ctx context.Context, tenantID, stationID uuid.UUID) (int64, error)
	Save(ctx context.Context, pump *Pump) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// NozzleFilter narrows nozzle listings
type NozzleFilter struct {
	PumpID    *uuid.UUID
	StationID *uuid.UUID
	FuelType  FuelType
	Status    Status
}

// NozzleRepository persists nozzles
type NozzleRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Nozzle, error)
	// LockLocation loads a nozzle with its pump and station while holding
	// a row lock on the nozzle until the surrounding transaction ends
	LockLocation(ctx context.Context, tenantID, id uuid.UUID) (*NozzleLocation, error)
	FindLocation(ctx context.Context, tenantID, id uuid.UUID) (*NozzleLocation, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter NozzleFilter) ([]NozzleLocation, error)
	CountByPump(ctx context.Context, tenantID, pumpID uuid.UUID) (int64, error)
	ExistsNumber(ctx context.Context, tenantID, pumpID uuid.UUID, number int, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, nozzle *Nozzle) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
