package station

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
)

// StationDTO is the API representation of a station
type StationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	PumpCount *int64    `json:"pump_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStationDTO converts a domain station
func ToStationDTO(s *station.Station) StationDTO {
	return StationDTO{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CreateStationInput carries a new station
type CreateStationInput struct {
	Name    string
	Address string
}

// UpdateStationInput changes station fields; empty values are left unchanged
type UpdateStationInput struct {
	Name    string
	Address string
	Status  string
}

// PumpDTO is the API representation of a pump
type PumpDTO struct {
	ID           uuid.UUID `json:"id"`
	StationID    uuid.UUID `json:"station_id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Status       string    `json:"status"`
	NozzleCount  *int64    `json:"nozzle_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToPumpDTO converts a domain pump
func ToPumpDTO(p *station.Pump) PumpDTO {
	return PumpDTO{
		ID:           p.ID,
		StationID:    p.StationID,
		Name:         p.Name,
		SerialNumber: p.SerialNumber,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreatePumpInput carries a new pump
type CreatePumpInput struct {
	StationID    uuid.UUID
	Name         string
	SerialNumber string
}

// UpdatePumpInput changes pump fields; empty values are left unchanged
type UpdatePumpInput struct {
	Name         string
	SerialNumber string
	Status       string
}

// NozzleDTO is the API representation of a nozzle with its location
type NozzleDTO struct {
	ID           uuid.UUID `json:"id"`
	PumpID       uuid.UUID `json:"pump_id"`
	PumpName     string    `json:"pump_name,omitempty"`
	StationID    uuid.UUID `json:"station_id"`
	StationName  string    `json:"station_name,omitempty"`
	NozzleNumber int       `json:"nozzle_number"`
	FuelType     string    `json:"fuel_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToNozzleDTO converts a nozzle location
func ToNozzleDTO(n *station.NozzleLocation) NozzleDTO {
	return NozzleDTO{
		ID:           n.ID,
		PumpID:       n.PumpID,
		PumpName:     n.PumpName,
		StationID:    n.StationID,
		StationName:  n.StationName,
		NozzleNumber: n.NozzleNumber,
		FuelType:     string(n.FuelType),
		Status:       string(n.Status),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

// CreateNozzleInput carries a new nozzle
type CreateNozzleInput struct {
	PumpID       uuid.UUID
	NozzleNumber int
	FuelType     string
}

// UpdateNozzleInput changes nozzle fields; zero values are left unchanged
type UpdateNozzleInput struct {
	NozzleNumber int
	FuelType     string
	Status       string
}

// NozzleListInput narrows nozzle listings
type NozzleListInput struct {
	PumpID    *uuid.UUID
	StationID *uuid.UUID
	FuelType  string
	Status    string
}

// PumpUsage is the pump usage of one station
type PumpUsage struct {
	StationID   uuid.UUID `json:"station_id"`
	StationName string    `json:"station_name"`
	station.Usage
}

// NozzleUsage is the nozzle usage of one pump
type NozzleUsage struct {
	PumpID    uuid.UUID `json:"pump_id"`
	PumpName  string    `json:"pump_name"`
	StationID uuid.UUID `json:"station_id"`
	station.Usage
}

// PlanUsageDTO reports how much of each plan limit the tenant uses
type PlanUsageDTO struct {
	PlanID   uuid.UUID     `json:"plan_id"`
	PlanName string        `json:"plan_name"`
	Stations station.Usage `json:"stations"`
	Pumps    []PumpUsage   `json:"pumps_per_station"`
	Nozzles  []NozzleUsage `json:"nozzles_per_pump"`
}
