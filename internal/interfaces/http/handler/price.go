package handler

import (
	"time"

	"github.com/fuelsync/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePriceRequest sets a fuel price from a point in time
// @Description Fuel price request; valid_from defaults to now
type CreatePriceRequest struct {
	StationID string          `json:"station_id" binding:"required,uuid"`
	FuelType  string          `json:"fuel_type" binding:"required,oneof=petrol diesel cng lpg ev" example:"diesel"`
	Price     decimal.Decimal `json:"price" binding:"required" swaggertype:"string" example:"94.27"`
	CostPrice decimal.Decimal `json:"cost_price" swaggertype:"string" example:"89.10"`
	ValidFrom *time.Time      `json:"valid_from"`
}

// PriceHandler handles fuel price endpoints
type PriceHandler struct {
	BaseHandler
	priceService *pricing.PriceService
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(priceService *pricing.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// Create godoc
// @ID           createFuelPrice
// @Summary      Set fuel price
// @Description  Record a price for a station and fuel type, effective from valid_from
// @Tags         fuel-prices
// @Accept       json
// @Produce      json
// @Param        request body CreatePriceRequest true "Price"
// @Success      201 {object} APIResponse[pricing.PriceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fuel-prices [post]
func (h *PriceHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	price, err := h.priceService.Create(c.Request.Context(), actor, pricing.CreatePriceInput{
		StationID: uuid.MustParse(req.StationID),
		FuelType:  req.FuelType,
		Price:     req.Price,
		CostPrice: req.CostPrice,
		ValidFrom: timeOrZero(req.ValidFrom),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, price)
}

// List godoc
// @ID           listFuelPrices
// @Summary      List fuel prices
// @Description  Price history, newest first
// @Tags         fuel-prices
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        fuelType query string false "Fuel type" Enums(petrol, diesel, cng, lpg, ev)
// @Success      200 {object} APIResponse[[]pricing.PriceDTO]
// @Security     BearerAuth
// @Router       /fuel-prices [get]
func (h *PriceHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	prices, err := h.priceService.List(c.Request.Context(), actor, stationID, c.Query("fuelType"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// Current godoc
// @ID           currentFuelPrices
// @Summary      Current fuel prices
// @Description  The price in effect now for each fuel type of a station
// @Tags         fuel-prices
// @Produce      json
// @Param        stationId query string true "Station ID" format(uuid)
// @Success      200 {object} APIResponse[[]pricing.PriceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fuel-prices/current [get]
func (h *PriceHandler) Current(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.requiredStation(c)
	if !ok {
		return
	}
	prices, err := h.priceService.Current(c.Request.Context(), actor, stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// At godoc
// @ID           fuelPriceAt
// @Summary      Price at time
// @Description  The price of a fuel type at a station at the given moment
// @Tags         fuel-prices
// @Produce      json
// @Param        stationId query string true "Station ID" format(uuid)
// @Param        fuelType query string true "Fuel type" Enums(petrol, diesel, cng, lpg, ev)
// @Param        at query string false "Moment (RFC 3339 or YYYY-MM-DD); defaults to now"
// @Success      200 {object} APIResponse[pricing.PriceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fuel-prices/at [get]
func (h *PriceHandler) At(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.requiredStation(c)
	if !ok {
		return
	}
	fuelType := c.Query("fuelType")
	if fuelType == "" {
		h.BadRequest(c, "fuelType is required")
		return
	}
	at, ok := h.optionalTimeQuery(c, "at", false)
	if !ok {
		return
	}
	when := time.Now()
	if at != nil {
		when = *at
	}
	price, err := h.priceService.PriceAt(c.Request.Context(), actor, stationID, fuelType, when)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}
