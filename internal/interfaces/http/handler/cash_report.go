package handler

import (
	"github.com/fuelsync/backend/internal/application/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditEntryRequest is a credit sale declared on a cash report
// @Description Credit entry; give either litres or amount
type CreditEntryRequest struct {
	CreditorID string          `json:"creditor_id" binding:"required,uuid"`
	FuelType   string          `json:"fuel_type" binding:"required,oneof=petrol diesel cng lpg ev"`
	Litres     decimal.Decimal `json:"litres" swaggertype:"string"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
}

// CreateCashReportRequest is an attendant's end of shift declaration
// @Description Cash report; one per station, date and shift
type CreateCashReportRequest struct {
	StationID     string               `json:"station_id" binding:"required,uuid"`
	Date          string               `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-10-19"`
	Shift         string               `json:"shift" binding:"omitempty,oneof=morning afternoon night full_day"`
	CashAmount    decimal.Decimal      `json:"cash_amount" swaggertype:"string" example:"15230.00"`
	CardAmount    decimal.Decimal      `json:"card_amount" swaggertype:"string"`
	UPIAmount     decimal.Decimal      `json:"upi_amount" swaggertype:"string"`
	Notes         string               `json:"notes" binding:"omitempty,max=1000"`
	CreditEntries []CreditEntryRequest `json:"credit_entries" binding:"omitempty,dive"`
}

// CashReportHandler handles attendant cash reports
type CashReportHandler struct {
	BaseHandler
	cashReportService *reconciliation.CashReportService
}

// NewCashReportHandler creates a new cash report handler
func NewCashReportHandler(cashReportService *reconciliation.CashReportService) *CashReportHandler {
	return &CashReportHandler{cashReportService: cashReportService}
}

// Create godoc
// @ID           createCashReport
// @Summary      Submit cash report
// @Description  Declare collected cash, card and UPI amounts for a shift, with any credit sales made
// @Tags         cash-reports
// @Accept       json
// @Produce      json
// @Param        request body CreateCashReportRequest true "Cash report"
// @Success      201 {object} APIResponse[reconciliation.CashReportDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-reports [post]
func (h *CashReportHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateCashReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input := reconciliation.CreateCashReportInput{
		StationID:  uuid.MustParse(req.StationID),
		Shift:      req.Shift,
		CashAmount: req.CashAmount,
		CardAmount: req.CardAmount,
		UPIAmount:  req.UPIAmount,
		Notes:      req.Notes,
	}
	if req.Date != "" {
		date, ok := h.dateValue(c, "date", req.Date)
		if !ok {
			return
		}
		input.Date = date
	}
	for _, e := range req.CreditEntries {
		input.CreditEntries = append(input.CreditEntries, reconciliation.CreditEntryInput{
			CreditorID: uuid.MustParse(e.CreditorID),
			FuelType:   e.FuelType,
			Litres:     e.Litres,
			Amount:     e.Amount,
		})
	}
	report, err := h.cashReportService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, report)
}

// List godoc
// @ID           listCashReports
// @Summary      List cash reports
// @Description  Cash reports visible to the caller; attendants see only their own
// @Tags         cash-reports
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        mine query bool false "Only the caller's reports"
// @Success      200 {object} APIResponse[[]reconciliation.CashReportDTO]
// @Security     BearerAuth
// @Router       /cash-reports [get]
func (h *CashReportHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	reports, err := h.cashReportService.List(c.Request.Context(), actor, reconciliation.CashReportListInput{
		StationID: stationID,
		Mine:      c.Query("mine") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}
