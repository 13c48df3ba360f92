package handler

import (
	"github.com/fuelsync/backend/internal/application/station"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StationHandler handles stations and their plan usage
type StationHandler struct {
	BaseHandler
	stationService *station.StationService
	pumpService    *station.PumpService
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationService *station.StationService, pumpService *station.PumpService) *StationHandler {
	return &StationHandler{stationService: stationService, pumpService: pumpService}
}

// Create godoc
// @ID           createStation
// @Summary      Create station
// @Description  Create a station; fails with ERR_PLAN_LIMIT_EXCEEDED when the plan allows no more
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        request body CreateStationRequest true "Station"
// @Success      201 {object} APIResponse[station.StationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stations [post]
func (h *StationHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	st, err := h.stationService.Create(c.Request.Context(), actor, station.CreateStationInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, st)
}

// List godoc
// @ID           listStations
// @Summary      List stations
// @Description  Stations visible to the caller
// @Tags         stations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Param        search query string false "Search by name"
// @Success      200 {object} APIResponse[[]station.StationDTO]
// @Security     BearerAuth
// @Router       /stations [get]
func (h *StationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.stationService.List(c.Request.Context(), actor, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getStation
// @Summary      Get station
// @Tags         stations
// @Produce      json
// @Param        id path string true "Station ID" format(uuid)
// @Success      200 {object} APIResponse[station.StationDTO]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stations/{id} [get]
func (h *StationHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	st, err := h.stationService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// Update godoc
// @ID           updateStation
// @Summary      Update station
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        id path string true "Station ID" format(uuid)
// @Param        request body UpdateStationRequest true "Changes"
// @Success      200 {object} APIResponse[station.StationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stations/{id} [put]
func (h *StationHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	st, err := h.stationService.Update(c.Request.Context(), actor, id, station.UpdateStationInput{
		Name:    req.Name,
		Address: req.Address,
		Status:  req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// Delete godoc
// @ID           deleteStation
// @Summary      Delete station
// @Description  Delete a station without pumps
// @Tags         stations
// @Param        id path string true "Station ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stations/{id} [delete]
func (h *StationHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.stationService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPumps godoc
// @ID           listStationPumps
// @Summary      List station pumps
// @Tags         stations
// @Produce      json
// @Param        id path string true "Station ID" format(uuid)
// @Success      200 {object} APIResponse[[]station.PumpDTO]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stations/{id}/pumps [get]
func (h *StationHandler) ListPumps(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	pumps, err := h.pumpService.ListByStation(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pumps)
}

// PlanUsage godoc
// @ID           getPlanUsage
// @Summary      Plan usage
// @Description  How much of each plan limit the tenant uses
// @Tags         plan
// @Produce      json
// @Success      200 {object} APIResponse[station.PlanUsageDTO]
// @Security     BearerAuth
// @Router       /plan/usage [get]
func (h *StationHandler) PlanUsage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	usage, err := h.stationService.PlanUsage(c.Request.Context(), actor.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usage)
}

// PumpHandler handles pump endpoints
type PumpHandler struct {
	BaseHandler
	pumpService *station.PumpService
}

// NewPumpHandler creates a new pump handler
func NewPumpHandler(pumpService *station.PumpService) *PumpHandler {
	return &PumpHandler{pumpService: pumpService}
}

// Create godoc
// @ID           createPump
// @Summary      Create pump
// @Description  Add a pump to a station; fails with ERR_PLAN_LIMIT_EXCEEDED when the plan allows no more
// @Tags         pumps
// @Accept       json
// @Produce      json
// @Param        request body CreatePumpRequest true "Pump"
// @Success      201 {object} APIResponse[station.PumpDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pumps [post]
func (h *PumpHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreatePumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	pump, err := h.pumpService.Create(c.Request.Context(), actor, station.CreatePumpInput{
		StationID:    uuid.MustParse(req.StationID),
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pump)
}

// List godoc
// @ID           listPumps
// @Summary      List pumps
// @Description  Pumps of one station
// @Tags         pumps
// @Produce      json
// @Param        stationId query string true "Station ID" format(uuid)
// @Success      200 {object} APIResponse[[]station.PumpDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pumps [get]
func (h *PumpHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.requiredStation(c)
	if !ok {
		return
	}
	pumps, err := h.pumpService.ListByStation(c.Request.Context(), actor, stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pumps)
}

// Get godoc
// @ID           getPump
// @Summary      Get pump
// @Tags         pumps
// @Produce      json
// @Param        id path string true "Pump ID" format(uuid)
// @Success      200 {object} APIResponse[station.PumpDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pumps/{id} [get]
func (h *PumpHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	pump, err := h.pumpService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pump)
}

// Update godoc
// @ID           updatePump
// @Summary      Update pump
// @Tags         pumps
// @Accept       json
// @Produce      json
// @Param        id path string true "Pump ID" format(uuid)
// @Param        request body UpdatePumpRequest true "Changes"
// @Success      200 {object} APIResponse[station.PumpDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pumps/{id} [put]
func (h *PumpHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	pump, err := h.pumpService.Update(c.Request.Context(), actor, id, station.UpdatePumpInput{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Status:       req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pump)
}

// Delete godoc
// @ID           deletePump
// @Summary      Delete pump
// @Description  Delete a pump without nozzles
// @Tags         pumps
// @Param        id path string true "Pump ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pumps/{id} [delete]
func (h *PumpHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.pumpService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// NozzleHandler handles nozzle endpoints
type NozzleHandler struct {
	BaseHandler
	nozzleService *station.NozzleService
}

// NewNozzleHandler creates a new nozzle handler
func NewNozzleHandler(nozzleService *station.NozzleService) *NozzleHandler {
	return &NozzleHandler{nozzleService: nozzleService}
}

// Create godoc
// @ID           createNozzle
// @Summary      Create nozzle
// @Description  Add a nozzle to a pump; nozzle numbers are unique per pump
// @Tags         nozzles
// @Accept       json
// @Produce      json
// @Param        request body CreateNozzleRequest true "Nozzle"
// @Success      201 {object} APIResponse[station.NozzleDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzles [post]
func (h *NozzleHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateNozzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	nozzle, err := h.nozzleService.Create(c.Request.Context(), actor, station.CreateNozzleInput{
		PumpID:       uuid.MustParse(req.PumpID),
		NozzleNumber: req.NozzleNumber,
		FuelType:     req.FuelType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, nozzle)
}

// List godoc
// @ID           listNozzles
// @Summary      List nozzles
// @Tags         nozzles
// @Produce      json
// @Param        pumpId query string false "Pump ID" format(uuid)
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        fuelType query string false "Fuel type" Enums(petrol, diesel, cng, lpg, ev)
// @Param        status query string false "Status" Enums(active, inactive, maintenance)
// @Success      200 {object} APIResponse[[]station.NozzleDTO]
// @Security     BearerAuth
// @Router       /nozzles [get]
func (h *NozzleHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q NozzleListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	input := station.NozzleListInput{FuelType: q.FuelType, Status: q.Status}
	if q.PumpID != "" {
		id := uuid.MustParse(q.PumpID)
		input.PumpID = &id
	}
	if q.StationID != "" {
		id := uuid.MustParse(q.StationID)
		input.StationID = &id
	}
	nozzles, err := h.nozzleService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nozzles)
}

// Get godoc
// @ID           getNozzle
// @Summary      Get nozzle
// @Tags         nozzles
// @Produce      json
// @Param        id path string true "Nozzle ID" format(uuid)
// @Success      200 {object} APIResponse[station.NozzleDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzles/{id} [get]
func (h *NozzleHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	nozzle, err := h.nozzleService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nozzle)
}

// Update godoc
// @ID           updateNozzle
// @Summary      Update nozzle
// @Tags         nozzles
// @Accept       json
// @Produce      json
// @Param        id path string true "Nozzle ID" format(uuid)
// @Param        request body UpdateNozzleRequest true "Changes"
// @Success      200 {object} APIResponse[station.NozzleDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzles/{id} [put]
func (h *NozzleHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateNozzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	nozzle, err := h.nozzleService.Update(c.Request.Context(), actor, id, station.UpdateNozzleInput{
		NozzleNumber: req.NozzleNumber,
		FuelType:     req.FuelType,
		Status:       req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nozzle)
}

// Delete godoc
// @ID           deleteNozzle
// @Summary      Delete nozzle
// @Description  Delete a nozzle that has no readings
// @Tags         nozzles
// @Param        id path string true "Nozzle ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /nozzles/{id} [delete]
func (h *NozzleHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.nozzleService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
