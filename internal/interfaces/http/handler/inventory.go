package handler

import (
	"time"

	appinventory "github.com/fuelsync/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDeliveryRequest records fuel received at a station
// @Description Fuel delivery; the station stock grows by volume
type CreateDeliveryRequest struct {
	StationID     string          `json:"station_id" binding:"required,uuid"`
	FuelType      string          `json:"fuel_type" binding:"required,oneof=petrol diesel cng lpg ev"`
	Volume        decimal.Decimal `json:"volume" binding:"required,gt=0" swaggertype:"string" example:"5000"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
	Supplier      string          `json:"supplier" binding:"omitempty,max=200"`
	InvoiceNumber string          `json:"invoice_number" binding:"omitempty,max=100"`
}

// UpdateInventoryRequest overrides tank levels after a dip reading
// @Description Inventory adjustment
type UpdateInventoryRequest struct {
	StationID    string           `json:"station_id" binding:"required,uuid"`
	FuelType     string           `json:"fuel_type" binding:"required,oneof=petrol diesel cng lpg ev"`
	CurrentStock decimal.Decimal  `json:"current_stock" binding:"gte=0" swaggertype:"string"`
	MinimumLevel decimal.Decimal  `json:"minimum_level" binding:"gte=0" swaggertype:"string"`
	Capacity     *decimal.Decimal `json:"capacity" swaggertype:"string"`
}

// InventoryHandler handles fuel deliveries and stock levels
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateDelivery godoc
// @ID           createFuelDelivery
// @Summary      Record fuel delivery
// @Tags         fuel-deliveries
// @Accept       json
// @Produce      json
// @Param        request body CreateDeliveryRequest true "Delivery"
// @Success      201 {object} APIResponse[appinventory.DeliveryResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fuel-deliveries [post]
func (h *InventoryHandler) CreateDelivery(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.inventoryService.CreateDelivery(c.Request.Context(), actor, appinventory.CreateDeliveryInput{
		StationID:     uuid.MustParse(req.StationID),
		FuelType:      req.FuelType,
		Volume:        req.Volume,
		DeliveredAt:   timeOrZero(req.DeliveredAt),
		Supplier:      req.Supplier,
		InvoiceNumber: req.InvoiceNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListDeliveries godoc
// @ID           listFuelDeliveries
// @Summary      List fuel deliveries
// @Tags         fuel-deliveries
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        limit query int false "Maximum rows" default(100)
// @Success      200 {object} APIResponse[[]appinventory.DeliveryDTO]
// @Security     BearerAuth
// @Router       /fuel-deliveries [get]
func (h *InventoryHandler) ListDeliveries(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	limit, ok := h.intQuery(c, "limit", 100)
	if !ok {
		return
	}
	deliveries, err := h.inventoryService.ListDeliveries(c.Request.Context(), actor, stationID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deliveries)
}

// List godoc
// @ID           listInventory
// @Summary      List fuel inventory
// @Description  Current stock per station and fuel type
// @Tags         inventory
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Success      200 {object} APIResponse[[]appinventory.InventoryDTO]
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	rows, err := h.inventoryService.List(c.Request.Context(), actor, stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Update godoc
// @ID           updateInventory
// @Summary      Adjust fuel inventory
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body UpdateInventoryRequest true "Levels"
// @Success      200 {object} APIResponse[appinventory.InventoryDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	row, err := h.inventoryService.Update(c.Request.Context(), actor, appinventory.UpdateInventoryInput{
		StationID:    uuid.MustParse(req.StationID),
		FuelType:     req.FuelType,
		CurrentStock: req.CurrentStock,
		MinimumLevel: req.MinimumLevel,
		Capacity:     req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}
