package handler

import (
	"time"

	"github.com/fuelsync/backend/internal/application/credit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCreditorRequest represents a creditor creation request
// @Description Credit customer; station_id binds the creditor to one station
type CreateCreditorRequest struct {
	StationID   string          `json:"station_id" binding:"omitempty,uuid"`
	PartyName   string          `json:"party_name" binding:"required,min=1,max=200" example:"Metro Logistics"`
	ContactName string          `json:"contact_name" binding:"omitempty,max=100"`
	Phone       string          `json:"phone" binding:"omitempty,max=30"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Address     string          `json:"address" binding:"omitempty,max=500"`
	CreditLimit decimal.Decimal `json:"credit_limit" swaggertype:"string" example:"50000.00"`
}

// UpdateCreditorRequest represents a partial creditor update
// @Description Creditor update request
type UpdateCreditorRequest struct {
	PartyName   *string          `json:"party_name" binding:"omitempty,min=1,max=200"`
	ContactName *string          `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string          `json:"phone" binding:"omitempty,max=30"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit" swaggertype:"string"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreditorListQuery filters the creditor list
type CreditorListQuery struct {
	StationID string `form:"stationId" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search    string `form:"search" binding:"omitempty,max=100"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// CreatePaymentRequest records money received from a creditor
// @Description Credit payment
type CreatePaymentRequest struct {
	CreditorID    string          `json:"creditor_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"2500.00"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=30" example:"bank_transfer"`
	ReferenceNo   string          `json:"reference_number" binding:"omitempty,max=100"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
	ReceivedAt    *time.Time      `json:"received_at"`
}

// CreditorHandler handles creditors and their payments
type CreditorHandler struct {
	BaseHandler
	creditorService *credit.CreditorService
}

// NewCreditorHandler creates a new creditor handler
func NewCreditorHandler(creditorService *credit.CreditorService) *CreditorHandler {
	return &CreditorHandler{creditorService: creditorService}
}

// Create godoc
// @ID           createCreditor
// @Summary      Create creditor
// @Tags         creditors
// @Accept       json
// @Produce      json
// @Param        request body CreateCreditorRequest true "Creditor"
// @Success      201 {object} APIResponse[credit.CreditorDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /creditors [post]
func (h *CreditorHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateCreditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input := credit.CreateCreditorInput{
		PartyName:   req.PartyName,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	}
	if req.StationID != "" {
		id := uuid.MustParse(req.StationID)
		input.StationID = &id
	}
	creditor, err := h.creditorService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, creditor)
}

// List godoc
// @ID           listCreditors
// @Summary      List creditors
// @Tags         creditors
// @Produce      json
// @Param        stationId query string false "Station ID" format(uuid)
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        search query string false "Search by party name"
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]credit.CreditorDTO]
// @Security     BearerAuth
// @Router       /creditors [get]
func (h *CreditorHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q CreditorListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	input := credit.CreditorListInput{
		Status:   q.Status,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.StationID != "" {
		id := uuid.MustParse(q.StationID)
		input.StationID = &id
	}
	page, err := h.creditorService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getCreditor
// @Summary      Get creditor
// @Tags         creditors
// @Produce      json
// @Param        id path string true "Creditor ID" format(uuid)
// @Success      200 {object} APIResponse[credit.CreditorDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /creditors/{id} [get]
func (h *CreditorHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	creditor, err := h.creditorService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditor)
}

// Update godoc
// @ID           updateCreditor
// @Summary      Update creditor
// @Tags         creditors
// @Accept       json
// @Produce      json
// @Param        id path string true "Creditor ID" format(uuid)
// @Param        request body UpdateCreditorRequest true "Changes"
// @Success      200 {object} APIResponse[credit.CreditorDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /creditors/{id} [put]
func (h *CreditorHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCreditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	creditor, err := h.creditorService.Update(c.Request.Context(), actor, id, credit.UpdateCreditorInput{
		PartyName:   req.PartyName,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		Status:      req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditor)
}

// Delete godoc
// @ID           deleteCreditor
// @Summary      Delete creditor
// @Description  Delete a creditor with no outstanding balance
// @Tags         creditors
// @Param        id path string true "Creditor ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /creditors/{id} [delete]
func (h *CreditorHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.creditorService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPayment godoc
// @ID           createCreditPayment
// @Summary      Record credit payment
// @Description  Record a payment received from a creditor; the outstanding balance is reduced
// @Tags         credit-payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[credit.PaymentResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-payments [post]
func (h *CreditorHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.creditorService.RecordPayment(c.Request.Context(), actor, credit.CreatePaymentInput{
		CreditorID:    uuid.MustParse(req.CreditorID),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ReferenceNo:   req.ReferenceNo,
		Notes:         req.Notes,
		ReceivedAt:    timeOrZero(req.ReceivedAt),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListPayments godoc
// @ID           listCreditPayments
// @Summary      List credit payments
// @Description  Payments of one creditor, newest first
// @Tags         credit-payments
// @Produce      json
// @Param        creditorId query string true "Creditor ID" format(uuid)
// @Success      200 {object} APIResponse[[]credit.PaymentDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-payments [get]
func (h *CreditorHandler) ListPayments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	creditorID, ok := h.optionalUUIDQuery(c, "creditorId")
	if !ok {
		return
	}
	if creditorID == nil {
		h.BadRequest(c, "creditorId is required")
		return
	}
	payments, err := h.creditorService.ListPayments(c.Request.Context(), actor, *creditorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
