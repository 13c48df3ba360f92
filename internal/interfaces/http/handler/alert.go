package handler

import (
	appalert "github.com/fuelsync/backend/internal/application/alert"
	"github.com/gin-gonic/gin"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	BaseHandler
	alertService *appalert.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertService *appalert.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List godoc
// @ID           listAlerts
// @Summary      List alerts
// @Description  Alerts of the tenant and the caller's stations, newest first
// @Tags         alerts
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        unreadOnly query bool false "Only unacknowledged alerts"
// @Success      200 {object} APIResponse[[]appalert.AlertDTO]
// @Security     BearerAuth
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	alerts, err := h.alertService.List(c.Request.Context(), actor, appalert.ListInput{
		StationID:  stationID,
		UnreadOnly: c.Query("unreadOnly") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Count godoc
// @ID           countUnreadAlerts
// @Summary      Count unread alerts
// @Tags         alerts
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /alerts/count [get]
func (h *AlertHandler) Count(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	count, err := h.alertService.CountUnread(c.Request.Context(), actor, stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// Acknowledge godoc
// @ID           acknowledgeAlert
// @Summary      Acknowledge alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} APIResponse[appalert.AlertDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/{id}/read [patch]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	a, err := h.alertService.Acknowledge(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}
