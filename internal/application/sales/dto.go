package sales

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSalesPageSize is the page size of sale listings when none is given
const DefaultSalesPageSize = 50

// CreateReadingInput records a cumulative nozzle reading
type CreateReadingInput struct {
	NozzleID      uuid.UUID
	Reading       decimal.Decimal
	RecordedAt    time.Time
	PaymentMethod string
	CreditorID    *uuid.UUID
}

// ReadingDTO is the API representation of a stored reading
type ReadingDTO struct {
	ID            uuid.UUID       `json:"id"`
	NozzleID      uuid.UUID       `json:"nozzle_id"`
	StationID     uuid.UUID       `json:"station_id"`
	Reading       decimal.Decimal `json:"reading"`
	RecordedAt    time.Time       `json:"recorded_at"`
	PaymentMethod string          `json:"payment_method"`
	CreditorID    *uuid.UUID      `json:"creditor_id,omitempty"`
	Voided        bool            `json:"voided"`
	VoidReason    string          `json:"void_reason,omitempty"`
}

// ToReadingDTO converts a domain reading
func ToReadingDTO(r *sales.Reading) ReadingDTO {
	return ReadingDTO{
		ID:            r.ID,
		NozzleID:      r.NozzleID,
		StationID:     r.StationID,
		Reading:       r.Reading,
		RecordedAt:    r.RecordedAt,
		PaymentMethod: string(r.PaymentMethod),
		CreditorID:    r.CreditorID,
		Voided:        r.Voided,
		VoidReason:    r.VoidReason,
	}
}

// SaleDTO is the API representation of a sale
type SaleDTO struct {
	ID            uuid.UUID       `json:"id"`
	ReadingID     *uuid.UUID      `json:"reading_id,omitempty"`
	NozzleID      uuid.UUID       `json:"nozzle_id"`
	StationID     uuid.UUID       `json:"station_id"`
	StationName   string          `json:"station_name,omitempty"`
	PumpName      string          `json:"pump_name,omitempty"`
	NozzleNumber  int             `json:"nozzle_number,omitempty"`
	FuelType      string          `json:"fuel_type"`
	Volume        decimal.Decimal `json:"volume"`
	FuelPrice     decimal.Decimal `json:"fuel_price"`
	Amount        decimal.Decimal `json:"amount"`
	Profit        decimal.Decimal `json:"profit"`
	PaymentMethod string          `json:"payment_method"`
	CreditorID    *uuid.UUID      `json:"creditor_id,omitempty"`
	CreditorName  string          `json:"creditor_name,omitempty"`
	Status        string          `json:"status"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// ToSaleDTO converts a domain sale
func ToSaleDTO(s *sales.Sale) SaleDTO {
	return SaleDTO{
		ID:            s.ID,
		ReadingID:     s.ReadingID,
		NozzleID:      s.NozzleID,
		StationID:     s.StationID,
		FuelType:      s.FuelType,
		Volume:        s.Volume,
		FuelPrice:     s.FuelPrice,
		Amount:        s.Amount,
		Profit:        s.Profit,
		PaymentMethod: string(s.PaymentMethod),
		CreditorID:    s.CreditorID,
		Status:        string(s.Status),
		RecordedAt:    s.RecordedAt,
	}
}

// ToSaleViewDTO converts a sale row with display names
func ToSaleViewDTO(v *sales.SaleView) SaleDTO {
	dto := ToSaleDTO(&v.Sale)
	dto.StationName = v.StationName
	dto.PumpName = v.PumpName
	dto.NozzleNumber = v.NozzleNumber
	dto.CreditorName = v.CreditorName
	return dto
}

// RecordedReading is a stored reading with the sale derived from it
type RecordedReading struct {
	Reading ReadingDTO `json:"reading"`
	Sale    SaleDTO    `json:"sale"`
}

// ReadingViewDTO is a listed reading with its nozzle and previous reading
type ReadingViewDTO struct {
	ID              uuid.UUID        `json:"id"`
	NozzleID        uuid.UUID        `json:"nozzle_id"`
	NozzleNumber    int              `json:"nozzle_number"`
	FuelType        string           `json:"fuel_type"`
	PumpID          uuid.UUID        `json:"pump_id"`
	PumpName        string           `json:"pump_name"`
	StationID       uuid.UUID        `json:"station_id"`
	StationName     string           `json:"station_name"`
	Reading         decimal.Decimal  `json:"reading"`
	PreviousReading *decimal.Decimal `json:"previous_reading,omitempty"`
	Volume          *decimal.Decimal `json:"volume,omitempty"`
	RecordedAt      time.Time        `json:"recorded_at"`
	PaymentMethod   string           `json:"payment_method"`
	Voided          bool             `json:"voided"`
	RecordedBy      string           `json:"recorded_by,omitempty"`
}

// ToReadingViewDTO converts a reading view and derives its volume
func ToReadingViewDTO(v *sales.ReadingView) ReadingViewDTO {
	dto := ReadingViewDTO{
		ID:              v.ID,
		NozzleID:        v.NozzleID,
		NozzleNumber:    v.NozzleNumber,
		FuelType:        v.FuelType,
		PumpID:          v.PumpID,
		PumpName:        v.PumpName,
		StationID:       v.StationID,
		StationName:     v.StationName,
		Reading:         v.Reading,
		PreviousReading: v.PreviousReading,
		RecordedAt:      v.RecordedAt,
		PaymentMethod:   string(v.PaymentMethod),
		Voided:          v.Voided,
		RecordedBy:      v.RecordedBy,
	}
	if v.PreviousReading != nil {
		volume := v.Reading.Sub(*v.PreviousReading)
		dto.Volume = &volume
	}
	return dto
}

// ReadingListInput narrows reading listings
type ReadingListInput struct {
	NozzleID  *uuid.UUID
	StationID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
}

// Eligibility reports whether a reading may be recorded for a nozzle now
type Eligibility struct {
	Allowed      bool             `json:"allowed"`
	Reason       string           `json:"reason,omitempty"`
	LastReading  *decimal.Decimal `json:"last_reading,omitempty"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}

// SaleListInput narrows sale listings
type SaleListInput struct {
	StationID     *uuid.UUID
	From          *time.Time
	To            *time.Time
	PaymentMethod string
	Page          int
	PageSize      int
}

// AnalyticsInput selects a sales aggregation
type AnalyticsInput struct {
	GroupBy   string
	StationID *uuid.UUID
	From      time.Time
	To        time.Time
}

// AnalyticsResult is a grouped sales aggregation with its grand totals
type AnalyticsResult struct {
	GroupBy string            `json:"group_by"`
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Groups  []sales.Aggregate `json:"groups"`
	Volume  decimal.Decimal   `json:"total_volume"`
	Amount  decimal.Decimal   `json:"total_amount"`
	Count   int64             `json:"total_count"`
}
