package handler

import (
	appidentity "github.com/fuelsync/backend/internal/application/identity"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves the platform administration endpoints
type AdminHandler struct {
	BaseHandler
	plans   *appidentity.PlanService
	tenants *appidentity.TenantService
	admins  *appidentity.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(plans *appidentity.PlanService, tenants *appidentity.TenantService, admins *appidentity.AdminService) *AdminHandler {
	return &AdminHandler{plans: plans, tenants: tenants, admins: admins}
}

// CreatePlan godoc
// @ID           createPlan
// @Summary      Create plan
// @Description  Create a subscription plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreatePlanRequest true "Plan"
// @Success      201 {object} APIResponse[appidentity.PlanDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans [post]
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), appidentity.CreatePlanInput{
		Name:               req.Name,
		MaxStations:        req.MaxStations,
		MaxPumpsPerStation: req.MaxPumpsPerStation,
		MaxNozzlesPerPump:  req.MaxNozzlesPerPump,
		PriceMonthly:       req.PriceMonthly,
		PriceYearly:        req.PriceYearly,
		Features:           req.Features,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// ListPlans godoc
// @ID           listPlans
// @Summary      List plans
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]appidentity.PlanDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans [get]
func (h *AdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// GetPlan godoc
// @ID           getPlan
// @Summary      Get plan
// @Tags         admin
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.PlanDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans/{id} [get]
func (h *AdminHandler) GetPlan(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// UpdatePlan godoc
// @ID           updatePlan
// @Summary      Update plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body UpdatePlanRequest true "Changes"
// @Success      200 {object} APIResponse[appidentity.PlanDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans/{id} [put]
func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), id, identity.PlanUpdate{
		Name:               req.Name,
		MaxStations:        req.MaxStations,
		MaxPumpsPerStation: req.MaxPumpsPerStation,
		MaxNozzlesPerPump:  req.MaxNozzlesPerPump,
		PriceMonthly:       req.PriceMonthly,
		PriceYearly:        req.PriceYearly,
		Features:           req.Features,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// DeletePlan godoc
// @ID           deletePlan
// @Summary      Delete plan
// @Description  Delete a plan that no tenant is subscribed to
// @Tags         admin
// @Param        id path string true "Plan ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans/{id} [delete]
func (h *AdminHandler) DeletePlan(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.plans.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTenant godoc
// @ID           createTenant
// @Summary      Create tenant
// @Description  Onboard a tenant and provision its default users. Generated passwords are returned once.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateTenantRequest true "Tenant"
// @Success      201 {object} APIResponse[appidentity.CreateTenantResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants [post]
func (h *AdminHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.tenants.Create(c.Request.Context(), appidentity.CreateTenantInput{
		Name:          req.Name,
		PlanID:        uuid.MustParse(req.PlanID),
		OwnerName:     req.OwnerName,
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListTenants godoc
// @ID           listTenants
// @Summary      List tenants
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Param        search query string false "Search by name"
// @Param        status query string false "Tenant status" Enums(active, suspended, cancelled, deleted)
// @Success      200 {object} APIResponse[[]appidentity.TenantDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants [get]
func (h *AdminHandler) ListTenants(c *gin.Context) {
	var q TenantListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.tenants.List(c.Request.Context(), identity.TenantFilter{
		Filter: q.Filter(),
		Status: identity.TenantStatus(q.Status),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// GetTenant godoc
// @ID           getTenant
// @Summary      Get tenant
// @Description  Tenant details with user and station counts
// @Tags         admin
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.TenantDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants/{id} [get]
func (h *AdminHandler) GetTenant(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenants.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateTenant godoc
// @ID           updateTenant
// @Summary      Update tenant
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        request body UpdateTenantRequest true "Changes"
// @Success      200 {object} APIResponse[appidentity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants/{id} [put]
func (h *AdminHandler) UpdateTenant(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input := appidentity.UpdateTenantInput{Name: req.Name}
	if req.PlanID != nil {
		planID := uuid.MustParse(*req.PlanID)
		input.PlanID = &planID
	}
	tenant, err := h.tenants.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateTenantStatus godoc
// @ID           updateTenantStatus
// @Summary      Change tenant status
// @Description  Suspend, cancel, reactivate or soft-delete a tenant
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        request body UpdateTenantStatusRequest true "Status"
// @Success      200 {object} APIResponse[appidentity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants/{id}/status [patch]
func (h *AdminHandler) UpdateTenantStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, err := h.tenants.UpdateStatus(c.Request.Context(), id, identity.TenantStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// DeleteTenant godoc
// @ID           deleteTenant
// @Summary      Delete tenant
// @Description  Soft-delete a tenant; its data is kept
// @Tags         admin
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tenants/{id} [delete]
func (h *AdminHandler) DeleteTenant(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tenants.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateAdmin godoc
// @ID           createAdminUser
// @Summary      Create admin user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateAdminRequest true "Admin"
// @Success      201 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	user, err := h.admins.Create(c.Request.Context(), appidentity.CreateAdminInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// ListAdmins godoc
// @ID           listAdminUsers
// @Summary      List admin users
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	users, err := h.admins.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// GetAdmin godoc
// @ID           getAdminUser
// @Summary      Get admin user
// @Tags         admin
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	user, err := h.admins.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetAdminPassword godoc
// @ID           resetAdminPassword
// @Summary      Reset admin password
// @Description  Set a new password for an admin. The admin's sessions are revoked.
// @Tags         admin
// @Accept       json
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body AdminPasswordRequest true "New password"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/reset-password [post]
func (h *AdminHandler) ResetAdminPassword(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AdminPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.admins.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Metrics godoc
// @ID           getPlatformMetrics
// @Summary      Platform metrics
// @Description  Counts of tenants, plans and admin users across the platform
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[appidentity.PlatformMetrics]
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Metrics(c *gin.Context) {
	metrics, err := h.admins.Metrics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// UpdateAdmin godoc
// @ID           updateAdminUser
// @Summary      Update admin user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body UpdateAdminRequest true "Changes"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	user, err := h.admins.Update(c.Request.Context(), id, appidentity.UpdateAdminInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// DeleteAdmin godoc
// @ID           deleteAdminUser
// @Summary      Delete admin user
// @Tags         admin
// @Param        id path string true "Admin ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.admins.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
