package handler

// CreateStationRequest represents a station creation request
// @Description Station creation request
type CreateStationRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100" example:"Highway 44"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// UpdateStationRequest changes station fields; empty fields are kept
// @Description Station update request
type UpdateStationRequest struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=100"`
	Address string `json:"address" binding:"omitempty,max=500"`
	Status  string `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

// CreatePumpRequest represents a pump creation request
// @Description Pump creation request
type CreatePumpRequest struct {
	StationID    string `json:"station_id" binding:"required,uuid"`
	Name         string `json:"name" binding:"required,min=1,max=100" example:"Pump 1"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
}

// UpdatePumpRequest changes pump fields; empty fields are kept
// @Description Pump update request
type UpdatePumpRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=100"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
	Status       string `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

// CreateNozzleRequest represents a nozzle creation request
// @Description Nozzle creation request
type CreateNozzleRequest struct {
	PumpID       string `json:"pump_id" binding:"required,uuid"`
	NozzleNumber int    `json:"nozzle_number" binding:"required,min=1" example:"1"`
	FuelType     string `json:"fuel_type" binding:"required,oneof=petrol diesel cng lpg ev" example:"petrol"`
}

// UpdateNozzleRequest changes nozzle fields; zero fields are kept
// @Description Nozzle update request
type UpdateNozzleRequest struct {
	NozzleNumber int    `json:"nozzle_number" binding:"omitempty,min=1"`
	FuelType     string `json:"fuel_type" binding:"omitempty,oneof=petrol diesel cng lpg ev"`
	Status       string `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

// NozzleListQuery filters the nozzle list
type NozzleListQuery struct {
	PumpID    string `form:"pumpId" binding:"omitempty,uuid"`
	StationID string `form:"stationId" binding:"omitempty,uuid"`
	FuelType  string `form:"fuelType" binding:"omitempty,oneof=petrol diesel cng lpg ev"`
	Status    string `form:"status" binding:"omitempty,oneof=active inactive maintenance"`
}
