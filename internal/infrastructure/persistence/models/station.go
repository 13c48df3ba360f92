package models

import (
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
)

// StationModel is the persistence model for stations
type StationModel struct {
	TenantModel
	Name    string         `gorm:"type:varchar(200);not null"`
	Address string         `gorm:"type:text"`
	Status  station.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (StationModel) TableName() string {
	return "stations"
}

// ToDomain converts the persistence model to a domain Station
func (m *StationModel) ToDomain() *station.Station {
	return &station.Station{
		TenantEntity: m.ToTenantEntity(),
		Name:         m.Name,
		Address:      m.Address,
		Status:       m.Status,
	}
}

// StationModelFromDomain creates a persistence model from a domain Station
func StationModelFromDomain(s *station.Station) *StationModel {
	m := &StationModel{Name: s.Name, Address: s.Address, Status: s.Status}
	m.FromTenantEntity(s.TenantEntity)
	return m
}

// PumpModel is the persistence model for pumps
type PumpModel struct {
	TenantModel
	StationID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name         string         `gorm:"type:varchar(100);not null"`
	SerialNumber string         `gorm:"type:varchar(100)"`
	Status       station.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (PumpModel) TableName() string {
	return "pumps"
}

// ToDomain converts the persistence model to a domain Pump
func (m *PumpModel) ToDomain() *station.Pump {
	return &station.Pump{
		TenantEntity: m.ToTenantEntity(),
		StationID:    m.StationID,
		Name:         m.Name,
		SerialNumber: m.SerialNumber,
		Status:       m.Status,
	}
}

// PumpModelFromDomain creates a persistence model from a domain Pump
func PumpModelFromDomain(p *station.Pump) *PumpModel {
	m := &PumpModel{StationID: p.StationID, Name: p.Name, SerialNumber: p.SerialNumber, Status: p.Status}
	m.FromTenantEntity(p.TenantEntity)
	return m
}

// NozzleModel is the persistence model for nozzles
type NozzleModel struct {
	TenantModel
	PumpID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_nozzles_pump_number,priority:1"`
	NozzleNumber int              `gorm:"not null;uniqueIndex:idx_nozzles_pump_number,priority:2"`
	FuelType     station.FuelType `gorm:"type:varchar(20);not null"`
	Status       station.Status   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (NozzleModel) TableName() string {
	return "nozzles"
}

// ToDomain converts the persistence model to a domain Nozzle
func (m *NozzleModel) ToDomain() *station.Nozzle {
	return &station.Nozzle{
		TenantEntity: m.ToTenantEntity(),
		PumpID:       m.PumpID,
		NozzleNumber: m.NozzleNumber,
		FuelType:     m.FuelType,
		Status:       m.Status,
	}
}

// NozzleModelFromDomain creates a persistence model from a domain Nozzle
func NozzleModelFromDomain(n *station.Nozzle) *NozzleModel {
	m := &NozzleModel{PumpID: n.PumpID, NozzleNumber: n.NozzleNumber, FuelType: n.FuelType, Status: n.Status}
	m.FromTenantEntity(n.TenantEntity)
	return m
}
