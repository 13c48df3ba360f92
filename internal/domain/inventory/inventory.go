package inventory

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mediumFactor is the multiple of the minimum level below which stock is "medium"
var mediumFactor = decimal.RequireFromString("1.5")

// StockStatus is a coarse stock level classification
type StockStatus string

const (
	StockLow    StockStatus = "low"
	StockMedium StockStatus = "medium"
	StockGood   StockStatus = "good"
)

// Inventory is the tank stock of one fuel type at a station
type Inventory struct {
	shared.TenantAggregateRoot
	StationID    uuid.UUID
	FuelType     station.FuelType
	CurrentStock decimal.Decimal
	MinimumLevel decimal.Decimal
	Capacity     decimal.Decimal
	LastUpdated  time.Time
}

// NewInventory creates an empty tank record
func NewInventory(tenantID, stationID uuid.UUID, fuel station.FuelType) *Inventory {
	return &Inventory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StationID:           stationID,
		FuelType:            fuel,
		CurrentStock:        decimal.Zero,
		MinimumLevel:        decimal.Zero,
		Capacity:            decimal.Zero,
		LastUpdated:         time.Now().UTC(),
	}
}

// Status classifies the current stock against the minimum level
func (i *Inventory) Status() StockStatus {
	return Classify(i.CurrentStock, i.MinimumLevel)
}

// Classify returns low at or below minimum, medium up to 1.5x minimum, else good
func Classify(current, minimum decimal.Decimal) StockStatus {
	switch {
	case current.LessThanOrEqual(minimum):
		return StockLow
	case current.LessThanOrEqual(minimum.Mul(mediumFactor)):
		return StockMedium
	default:
		return StockGood
	}
}

// SetLevels sets stock and thresholds and raises a low stock event when needed
func (i *Inventory) SetLevels(current, minimum decimal.Decimal, capacity *decimal.Decimal) error {
	if current.IsNegative() || minimum.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Stock levels cannot be negative")
	}
	if capacity != nil {
		if capacity.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "Capacity cannot be negative")
		}
		i.Capacity = shared.RoundVolume(*capacity)
	}
	i.CurrentStock = shared.RoundVolume(current)
	i.MinimumLevel = shared.RoundVolume(minimum)
	i.stamp()
	i.checkLow()
	return nil
}

// Receive adds delivered volume
func (i *Inventory) Receive(volume decimal.Decimal) {
	i.CurrentStock = shared.RoundVolume(i.CurrentStock.Add(volume))
	i.stamp()
}

// Dispense subtracts sold volume; stock never goes below zero
func (i *Inventory) Dispense(volume decimal.Decimal) {
	wasLow := i.Status() == StockLow
	i.CurrentStock = shared.RoundVolume(i.CurrentStock.Sub(volume))
	if i.CurrentStock.IsNegative() {
		i.CurrentStock = decimal.Zero
	}
	i.stamp()
	if !wasLow {
		i.checkLow()
	}
}

func (i *Inventory) checkLow() {
	if i.MinimumLevel.IsPositive() && i.Status() == StockLow {
		i.AddDomainEvent(NewInventoryLowEvent(i))
	}
}

func (i *Inventory) stamp() {
	i.LastUpdated = time.Now().UTC()
	i.Touch()
}

// Delivery is a fuel delivery received at a station
type Delivery struct {
	shared.TenantEntity
	StationID     uuid.UUID
	FuelType      station.FuelType
	Volume        decimal.Decimal
	DeliveredAt   time.Time
	Supplier      string
	InvoiceNumber string
	CreatedBy     *uuid.UUID
}

// NewDelivery creates a delivery; a zero deliveredAt means now
func NewDelivery(tenantID, stationID uuid.UUID, fuel station.FuelType, volume decimal.Decimal, deliveredAt time.Time, supplier, invoice string, by *uuid.UUID) (*Delivery, error) {
	if _, err := station.ParseFuelType(string(fuel)); err != nil {
		return nil, err
	}
	if !volume.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Delivery volume must be greater than 0")
	}
	if deliveredAt.IsZero() {
		deliveredAt = time.Now()
	}
	return &Delivery{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		StationID:     stationID,
		FuelType:      fuel,
		Volume:        shared.RoundVolume(volume),
		DeliveredAt:   deliveredAt.UTC(),
		Supplier:      supplier,
		InvoiceNumber: invoice,
		CreatedBy:     by,
	}, nil
}
