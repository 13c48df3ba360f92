package handler

import (
	"time"

	appsales "github.com/fuelsync/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReadingRequest records a cumulative nozzle meter reading
// @Description Nozzle reading; the sale for the dispensed volume is derived from it
type CreateReadingRequest struct {
	NozzleID      string          `json:"nozzle_id" binding:"required,uuid"`
	Reading       decimal.Decimal `json:"reading" binding:"required" swaggertype:"string" example:"12345.678"`
	RecordedAt    *time.Time      `json:"recorded_at"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash card upi credit" example:"cash"`
	CreditorID    string          `json:"creditor_id" binding:"omitempty,uuid"`
}

// VoidReadingRequest voids the latest reading of a nozzle
// @Description Void request
type VoidReadingRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// ReadingListQuery filters the reading list
type ReadingListQuery struct {
	NozzleID  string `form:"nozzleId" binding:"omitempty,uuid"`
	StationID string `form:"stationId" binding:"omitempty,uuid"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ReadingHandler handles nozzle reading endpoints
type ReadingHandler struct {
	BaseHandler
	readingService *appsales.ReadingService
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(readingService *appsales.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: readingService}
}

// Create godoc
// @ID           createNozzleReading
// @Summary      Record nozzle reading
// @Description  Record a cumulative reading; volume is the delta from the previous reading, priced at the fuel price in effect at recorded_at
// @Tags         nozzle-readings
// @Accept       json
// @Produce      json
// @Param        request body CreateReadingRequest true "Reading"
// @Success      201 {object} APIResponse[appsales.RecordedReading]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzle-readings [post]
func (h *ReadingHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input := appsales.CreateReadingInput{
		NozzleID:      uuid.MustParse(req.NozzleID),
		Reading:       req.Reading,
		RecordedAt:    timeOrZero(req.RecordedAt),
		PaymentMethod: req.PaymentMethod,
	}
	if req.CreditorID != "" {
		id := uuid.MustParse(req.CreditorID)
		input.CreditorID = &id
	}
	recorded, err := h.readingService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, recorded)
}

// List godoc
// @ID           listNozzleReadings
// @Summary      List nozzle readings
// @Description  Readings with nozzle, pump, station and sale details, newest first
// @Tags         nozzle-readings
// @Produce      json
// @Param        nozzleId query string false "Nozzle ID" format(uuid)
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        dateFrom query string false "From date (YYYY-MM-DD)"
// @Param        dateTo query string false "To date (YYYY-MM-DD)"
// @Param        limit query int false "Maximum rows" default(100)
// @Success      200 {object} APIResponse[[]appsales.ReadingViewDTO]
// @Security     BearerAuth
// @Router       /nozzle-readings [get]
func (h *ReadingHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ReadingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	from, ok := h.optionalTimeQuery(c, "dateFrom", false)
	if !ok {
		return
	}
	to, ok := h.optionalTimeQuery(c, "dateTo", true)
	if !ok {
		return
	}
	input := appsales.ReadingListInput{From: from, To: to, Limit: q.Limit}
	if q.NozzleID != "" {
		id := uuid.MustParse(q.NozzleID)
		input.NozzleID = &id
	}
	if q.StationID != "" {
		id := uuid.MustParse(q.StationID)
		input.StationID = &id
	}
	readings, err := h.readingService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, readings)
}

// Get godoc
// @ID           getNozzleReading
// @Summary      Get nozzle reading
// @Tags         nozzle-readings
// @Produce      json
// @Param        id path string true "Reading ID" format(uuid)
// @Success      200 {object} APIResponse[appsales.ReadingDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzle-readings/{id} [get]
func (h *ReadingHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	reading, err := h.readingService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reading)
}

// CanCreate godoc
// @ID           canCreateNozzleReading
// @Summary      Check reading eligibility
// @Description  Whether a reading can be recorded for the nozzle now, with the last reading and current price
// @Tags         nozzle-readings
// @Produce      json
// @Param        nozzleId path string true "Nozzle ID" format(uuid)
// @Success      200 {object} APIResponse[appsales.Eligibility]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzle-readings/can-create/{nozzleId} [get]
func (h *ReadingHandler) CanCreate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	nozzleID, ok := h.uuidParam(c, "nozzleId")
	if !ok {
		return
	}
	eligibility, err := h.readingService.CanCreate(c.Request.Context(), actor, nozzleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, eligibility)
}

// Void godoc
// @ID           voidNozzleReading
// @Summary      Void nozzle reading
// @Description  Void the latest reading of a nozzle; its sale is reversed
// @Tags         nozzle-readings
// @Accept       json
// @Produce      json
// @Param        id path string true "Reading ID" format(uuid)
// @Param        request body VoidReadingRequest true "Reason"
// @Success      200 {object} APIResponse[appsales.ReadingDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzle-readings/{id}/void [post]
func (h *ReadingHandler) Void(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req VoidReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	reading, err := h.readingService.Void(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reading)
}
