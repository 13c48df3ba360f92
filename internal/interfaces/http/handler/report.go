package handler

import (
	"github.com/fuelsync/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateScheduleRequest asks for a recurring report
// @Description Report schedule; without station_id it covers every station
type CreateScheduleRequest struct {
	StationID string `json:"station_id" binding:"omitempty,uuid"`
	Type      string `json:"type" binding:"required,oneof=sales financial"`
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly monthly"`
}

// ReportHandler handles exports, financial reports, the dashboard and analytics
type ReportHandler struct {
	BaseHandler
	reportService    *report.ReportService
	dashboardService *report.DashboardService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.ReportService, dashboardService *report.DashboardService) *ReportHandler {
	return &ReportHandler{reportService: reportService, dashboardService: dashboardService}
}

// ExportSales godoc
// @ID           exportSales
// @Summary      Export sales
// @Description  Sales with a summary as a JSON, CSV or XLSX download. With archive=true the file is stored and a temporary link is returned instead. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        dateFrom query string false "From date (YYYY-MM-DD)"
// @Param        dateTo query string false "To date (YYYY-MM-DD)"
// @Param        format query string false "File format" Enums(json, csv, xlsx) default(json)
// @Param        archive query bool false "Store the file and return a download link"
// @Success      200 {file} binary
// @Success      201 {object} APIResponse[report.Export]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) ExportSales(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
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
	export, err := h.reportService.ExportSales(c.Request.Context(), actor, report.ExportInput{
		StationID: stationID,
		From:      timeOrZero(from),
		To:        timeOrZero(to),
		Format:    c.Query("format"),
		Archive:   c.Query("archive") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if export.URL != "" {
		h.Created(c, export)
		return
	}
	sendFile(c, export.Filename, export.ContentType, export.Data)
}

// Financial godoc
// @ID           financialReport
// @Summary      Financial report
// @Description  Sales volume, revenue and profit per station and fuel type over a period
// @Tags         reports
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        period query string false "Period" Enums(daily, weekly, monthly, yearly) default(monthly)
// @Success      200 {object} APIResponse[report.FinancialReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/financial [get]
func (h *ReportHandler) Financial(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	result, err := h.reportService.Financial(c.Request.Context(), actor, stationID, c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateSchedule godoc
// @ID           createReportSchedule
// @Summary      Schedule report
// @Description  Request a sales or financial report every day, week or month
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body CreateScheduleRequest true "Schedule"
// @Success      201 {object} APIResponse[report.ScheduleDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/schedules [post]
func (h *ReportHandler) CreateSchedule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input := report.CreateScheduleInput{Type: req.Type, Frequency: req.Frequency}
	if req.StationID != "" {
		id := uuid.MustParse(req.StationID)
		input.StationID = &id
	}
	result, err := h.reportService.CreateSchedule(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListSchedules godoc
// @ID           listReportSchedules
// @Summary      List report schedules
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[[]report.ScheduleDTO]
// @Security     BearerAuth
// @Router       /reports/schedules [get]
func (h *ReportHandler) ListSchedules(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.reportService.ListSchedules(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteSchedule godoc
// @ID           deleteReportSchedule
// @Summary      Delete report schedule
// @Tags         reports
// @Param        id path string true "Schedule ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/schedules/{id} [delete]
func (h *ReportHandler) DeleteSchedule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.reportService.DeleteSchedule(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Dashboard
// @Description  Today's sales, payment mix, fuel mix, outstanding creditors and the daily trend
// @Tags         dashboard
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        days query int false "Trend length in days" default(7)
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
		return
	}
	days, ok := h.intQuery(c, "days", 0)
	if !ok {
		return
	}
	result, err := h.dashboardService.Dashboard(c.Request.Context(), actor, report.DashboardInput{
		StationID: stationID,
		Days:      days,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Analytics godoc
// @ID           getAnalytics
// @Summary      Analytics
// @Description  Station ranking, hourly distribution and peak hours over a window. Defaults to the last 30 days.
// @Tags         analytics
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        dateFrom query string false "From date (YYYY-MM-DD)"
// @Param        dateTo query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.Analytics]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics [get]
func (h *ReportHandler) Analytics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stationID, ok := h.optionalUUIDQuery(c, "stationId")
	if !ok {
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
	result, err := h.dashboardService.Analytics(c.Request.Context(), actor, report.AnalyticsInput{
		StationID: stationID,
		From:      timeOrZero(from),
		To:        timeOrZero(to),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
