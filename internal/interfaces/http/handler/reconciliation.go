package handler

import (
	"net/http"
	"strconv"

	"github.com/fuelsync/backend/internal/application/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunReconciliationRequest reconciles one station day
// @Description Reconciliation run request
type RunReconciliationRequest struct {
	StationID string `json:"station_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02" example:"2026-10-18"`
}

// ReconciliationHandler handles day reconciliation
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *reconciliation.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliationService *reconciliation.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Run godoc
// @ID           runReconciliation
// @Summary      Run reconciliation
// @Description  Compare the sales of a station day with the declared cash reports and store the result. A finalized day cannot be run again.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body RunReconciliationRequest true "Station day"
// @Success      200 {object} APIResponse[reconciliation.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation [post]
func (h *ReconciliationHandler) Run(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req RunReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	date, ok := h.dateValue(c, "date", req.Date)
	if !ok {
		return
	}
	result, err := h.reconciliationService.Run(c.Request.Context(), actor, uuid.MustParse(req.StationID), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listReconciliations
// @Summary      List reconciliations
// @Description  Stored reconciliations, newest day first
// @Tags         reconciliation
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        limit query int false "Maximum rows" default(30)
// @Success      200 {object} APIResponse[[]reconciliation.ReconciliationDTO]
// @Security     BearerAuth
// @Router       /reconciliation [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	limit, ok := h.intQuery(c, "limit", 30)
	if !ok {
		return
	}
	rows, err := h.reconciliationService.List(c.Request.Context(), actor, stationID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// GetByDay godoc
// @ID           getReconciliationByDay
// @Summary      Get reconciliation of a day
// @Tags         reconciliation
// @Produce      json
// @Param        stationId path string true "Station ID" format(uuid)
// @Param        date path string true "Business day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reconciliation.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/stations/{stationId}/days/{date} [get]
func (h *ReconciliationHandler) GetByDay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.uuidParam(c, "stationId")
	if !ok {
		return
	}
	date, ok := h.dateValue(c, "date", c.Param("date"))
	if !ok {
		return
	}
	result, err := h.reconciliationService.Get(c.Request.Context(), actor, stationID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DailySummary godoc
// @ID           getDailySummary
// @Summary      Daily sales summary
// @Description  Reading by reading breakdown of a station day with totals
// @Tags         reconciliation
// @Produce      json
// @Param        stationId path string true "Station ID" format(uuid)
// @Param        date path string true "Business day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reconciliation.DailySummary]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/stations/{stationId}/days/{date}/summary [get]
func (h *ReconciliationHandler) DailySummary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.uuidParam(c, "stationId")
	if !ok {
		return
	}
	date, ok := h.dateValue(c, "date", c.Param("date"))
	if !ok {
		return
	}
	summary, err := h.reconciliationService.DailySummary(c.Request.Context(), actor, stationID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get godoc
// @ID           getReconciliation
// @Summary      Get reconciliation
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} APIResponse[reconciliation.ReconciliationDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/{id} [get]
func (h *ReconciliationHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.reconciliationService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Approve godoc
// @ID           approveReconciliation
// @Summary      Approve reconciliation
// @Description  Finalize the day; readings, cash reports and payments for it are locked
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} APIResponse[reconciliation.ReconciliationDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/{id}/approve [post]
func (h *ReconciliationHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.reconciliationService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PDF godoc
// @ID           downloadReconciliationPDF
// @Summary      Download reconciliation PDF
// @Tags         reconciliation
// @Produce      application/pdf
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/{id}/pdf [get]
func (h *ReconciliationHandler) PDF(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	doc, err := h.reconciliationService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendFile(c, doc.Filename, doc.ContentType, doc.Data)
}

// sendFile writes an attachment download
func sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	c.Data(http.StatusOK, contentType, data)
}
