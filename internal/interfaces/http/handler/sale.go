package handler

import (
	appsales "github.com/fuelsync/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// SaleListQuery filters the sale list
type SaleListQuery struct {
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,oneof=cash card upi credit"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
}

// SaleHandler handles sale listings and sales analytics
type SaleHandler struct {
	BaseHandler
	saleService *appsales.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *appsales.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Description  Sales derived from readings, newest first
// @Tags         sales
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        dateFrom query string false "From date (YYYY-MM-DD)"
// @Param        dateTo query string false "To date (YYYY-MM-DD)"
// @Param        paymentMethod query string false "Payment method" Enums(cash, card, upi, credit)
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(50)
// @Success      200 {object} APIResponse[[]appsales.SaleDTO]
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q SaleListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
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
	page, err := h.saleService.List(c.Request.Context(), actor, appsales.SaleListInput{
		StationID:     stationID,
		From:          from,
		To:            to,
		PaymentMethod: q.PaymentMethod,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// Analytics godoc
// @ID           salesAnalytics
// @Summary      Sales analytics
// @Description  Sales volume and amount grouped by station, pump, fuel type or payment method. Defaults to the last 30 days.
// @Tags         sales
// @Produce      json
// @Param        groupBy query string false "Grouping" Enums(station, pump, fuel_type, payment_method) default(station)
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        dateFrom query string false "From date (YYYY-MM-DD)"
// @Param        dateTo query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[appsales.AnalyticsResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/analytics [get]
func (h *SaleHandler) Analytics(c *gin.Context) {
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
	groupBy := c.DefaultQuery("groupBy", "station")
	result, err := h.saleService.Analytics(c.Request.Context(), actor, appsales.AnalyticsInput{
		GroupBy:   groupBy,
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
