package station

import "github.com/fuelsync/backend/internal/domain/shared"

// FuelType is the product dispensed by a nozzle
type FuelType string

const (
	FuelPetrol FuelType = "petrol"
	FuelDiesel FuelType = "diesel"
	FuelCNG    FuelType = "cng"
	FuelLPG    FuelType = "lpg"
	FuelEV     FuelType = "ev"
)

// FuelTypes lists every supported fuel type
var FuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelCNG, FuelLPG, FuelEV}

// ParseFuelType validates a fuel type string
func ParseFuelType(s string) (FuelType, error) {
	for _, f := range FuelTypes {
		if string(f) == s {
			return f, nil
		}
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "Invalid fuel type: %s", s)
}

// Status is the operational status shared by stations, pumps and nozzles
type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// ParseStatus validates a status string; empty maps to active
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusActive, nil
	case StatusActive, StatusInactive, StatusMaintenance:
		return Status(s), nil
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "Invalid status: %s", s)
}
