package station

import (
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Station is a fuel station owned by a tenant
type Station struct {
	shared.TenantEntity
	Name    string
	Address string
	Status  Status
}

// NewStation creates an active station
func NewStation(tenantID uuid.UUID, name, address string) (*Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station name cannot exceed 200 characters")
	}
	return &Station{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Address:      strings.TrimSpace(address),
		Status:       StatusActive,
	}, nil
}

// Update changes station fields; empty values are ignored
func (s *Station) Update(name, address string, status Status) {
	if n := strings.TrimSpace(name); n != "" {
		s.Name = n
	}
	if address != "" {
		s.Address = strings.TrimSpace(address)
	}
	if status != "" {
		s.Status = status
	}
	s.Touch()
}

// IsActive reports whether the station is operating
func (s *Station) IsActive() bool {
	return s.Status == StatusActive
}

// Pump is a dispenser unit at a station
type Pump struct {
	shared.TenantEntity
	StationID    uuid.UUID
	Name         string
	SerialNumber string
	Status       Status
}

// NewPump creates an active pump at a station
func NewPump(tenantID, stationID uuid.UUID, name, serial string) (*Pump, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Pump name cannot be empty")
	}
	if stationID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station is required")
	}
	return &Pump{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StationID:    stationID,
		Name:         name,
		SerialNumber: strings.TrimSpace(serial),
		Status:       StatusActive,
	}, nil
}

// Update changes pump fields; empty values are ignored
func (p *Pump) Update(name, serial string, status Status) {
	if n := strings.TrimSpace(name); n != "" {
		p.Name = n
	}
	if serial != "" {
		p.SerialNumber = strings.TrimSpace(serial)
	}
	if status != "" {
		p.Status = status
	}
	p.Touch()
}

// Nozzle is a single hose of a pump dispensing one fuel type
type Nozzle struct {
	shared.TenantEntity
	PumpID       uuid.UUID
	NozzleNumber int
	FuelType     FuelType
	Status       Status
}

// NewNozzle creates an active nozzle on a pump
func NewNozzle(tenantID, pumpID uuid.UUID, number int, fuel FuelType) (*Nozzle, error) {
	if pumpID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Pump is required")
	}
	if number < 1 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Nozzle number must be positive")
	}
	if _, err := ParseFuelType(string(fuel)); err != nil {
		return nil, err
	}
	return &Nozzle{
		TenantEntity: shared.NewTenantEntity(tenantID),
		PumpID:       pumpID,
		NozzleNumber: number,
		FuelType:     fuel,
		Status:       StatusActive,
	}, nil
}

// Update changes nozzle fields; zero values are ignored
func (n *Nozzle) Update(number int, fuel FuelType, status Status) error {
	if number < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Nozzle number must be positive")
	}
	if number > 0 {
		n.NozzleNumber = number
	}
	if fuel != "" {
		if _, err := ParseFuelType(string(fuel)); err != nil {
			return err
		}
		n.FuelType = fuel
	}
	if status != "" {
		n.Status = status
	}
	n.Touch()
	return nil
}

// IsActive reports whether readings may be recorded against the nozzle
func (n *Nozzle) IsActive() bool {
	return n.Status == StatusActive
}

// NozzleLocation is a nozzle together with the pump and station it belongs to
type NozzleLocation struct {
	Nozzle
	StationID   uuid.UUID
	StationName string
	PumpName    string
}
