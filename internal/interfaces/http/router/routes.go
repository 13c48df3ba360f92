package router

import (
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/interfaces/http/handler"
	"github.com/fuelsync/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers of the API
type Handlers struct {
	Auth           *handler.AuthHandler
	Admin          *handler.AdminHandler
	User           *handler.UserHandler
	Station        *handler.StationHandler
	Pump           *handler.PumpHandler
	Nozzle         *handler.NozzleHandler
	Price          *handler.PriceHandler
	Reading        *handler.ReadingHandler
	Sale           *handler.SaleHandler
	Creditor       *handler.CreditorHandler
	CashReport     *handler.CashReportHandler
	Reconciliation *handler.ReconciliationHandler
	Inventory      *handler.InventoryHandler
	Alert          *handler.AlertHandler
	Report         *handler.ReportHandler
	System         *handler.SystemHandler
}

// Guards is the authentication chain of protected groups
type Guards struct {
	// JWT validates the bearer token
	JWT gin.HandlerFunc
	// Tenant resolves the tenant and the actor
	Tenant gin.HandlerFunc
	// Identity runs after Tenant on tenant routes, e.g. span enrichment
	Identity []gin.HandlerFunc
	// Login throttles login and refresh; optional
	Login gin.HandlerFunc
}

func (g Guards) tenantChain() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.JWT, g.Tenant}
	return append(chain, g.Identity...)
}

var (
	tenantRoles = []identity.Role{identity.RoleOwner, identity.RoleManager, identity.RoleAttendant}
	staffRoles  = []identity.Role{identity.RoleOwner, identity.RoleManager}
)

// Groups builds every route group of the API
func Groups(h Handlers, g Guards) []RouteRegistrar {
	anyone := middleware.RequireRole(tenantRoles...)
	staff := middleware.RequireRole(staffRoles...)
	owner := middleware.RequireRole(identity.RoleOwner)
	stationQuery := middleware.StationAccess()

	health := NewDomainGroup("system", "")
	health.GET("/health", h.System.Health)

	auth := NewDomainGroup("auth", "/auth")
	public := auth.Group("public", "")
	if g.Login != nil {
		public.Use(g.Login)
	}
	public.POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh)
	auth.Group("session", "").Use(g.JWT).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)
	auth.Group("password", "").Use(g.tenantChain()...).Use(anyone).
		PUT("/password", h.Auth.ChangePassword)

	admin := NewDomainGroup("admin", "/admin").Use(g.JWT, middleware.RequireSuperAdmin())
	admin.Group("plans", "/plans").
		POST("", h.Admin.CreatePlan).
		GET("", h.Admin.ListPlans).
		GET("/:id", h.Admin.GetPlan).
		PUT("/:id", h.Admin.UpdatePlan).
		DELETE("/:id", h.Admin.DeletePlan)
	admin.Group("tenants", "/tenants").
		POST("", h.Admin.CreateTenant).
		GET("", h.Admin.ListTenants).
		GET("/:id", h.Admin.GetTenant).
		PUT("/:id", h.Admin.UpdateTenant).
		PATCH("/:id/status", h.Admin.UpdateTenantStatus).
		DELETE("/:id", h.Admin.DeleteTenant)
	admin.Group("admins", "/users").
		POST("", h.Admin.CreateAdmin).
		GET("", h.Admin.ListAdmins).
		GET("/:id", h.Admin.GetAdmin).
		PUT("/:id", h.Admin.UpdateAdmin).
		DELETE("/:id", h.Admin.DeleteAdmin).
		POST("/:id/reset-password", h.Admin.ResetAdminPassword)
	admin.Group("dashboard", "/dashboard").
		GET("", h.Admin.Metrics)

	tenant := NewDomainGroup("tenant", "").Use(g.tenantChain()...)

	tenant.Group("users", "/users").Use(staff).
		POST("", h.User.Create).
		GET("", h.User.List).
		GET("/:id", h.User.Get).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete).
		POST("/:id/reset-password", h.User.ResetPassword).
		GET("/:id/stations", h.User.ListStations).
		PUT("/:id/stations", h.User.AssignStations)

	tenant.Group("stations", "/stations").Use(middleware.StationAccess("id")).
		POST("", owner, h.Station.Create).
		GET("", anyone, h.Station.List).
		GET("/:id", anyone, h.Station.Get).
		PUT("/:id", staff, h.Station.Update).
		DELETE("/:id", owner, h.Station.Delete).
		GET("/:id/pumps", anyone, h.Station.ListPumps)

	tenant.Group("pumps", "/pumps").Use(stationQuery).
		POST("", staff, h.Pump.Create).
		GET("", anyone, h.Pump.List).
		GET("/:id", anyone, h.Pump.Get).
		PUT("/:id", staff, h.Pump.Update).
		DELETE("/:id", staff, h.Pump.Delete)

	tenant.Group("nozzles", "/nozzles").Use(stationQuery).
		POST("", staff, h.Nozzle.Create).
		GET("", anyone, h.Nozzle.List).
		GET("/:id", anyone, h.Nozzle.Get).
		PUT("/:id", staff, h.Nozzle.Update).
		DELETE("/:id", staff, h.Nozzle.Delete)

	tenant.Group("readings", "/nozzle-readings").Use(stationQuery).
		POST("", anyone, h.Reading.Create).
		GET("", anyone, h.Reading.List).
		GET("/can-create/:nozzleId", anyone, h.Reading.CanCreate).
		GET("/:id", anyone, h.Reading.Get).
		POST("/:id/void", staff, h.Reading.Void)

	tenant.Group("prices", "/fuel-prices").Use(stationQuery).
		POST("", staff, h.Price.Create).
		GET("", anyone, h.Price.List).
		GET("/current", anyone, h.Price.Current).
		GET("/at", anyone, h.Price.At)

	tenant.Group("creditors", "/creditors").Use(stationQuery).
		POST("", staff, h.Creditor.Create).
		GET("", anyone, h.Creditor.List).
		GET("/:id", anyone, h.Creditor.Get).
		PUT("/:id", staff, h.Creditor.Update).
		DELETE("/:id", staff, h.Creditor.Delete)

	tenant.Group("payments", "/credit-payments").Use(staff).
		POST("", h.Creditor.RecordPayment).
		GET("", h.Creditor.ListPayments)

	tenant.Group("cash-reports", "/cash-reports").Use(anyone, stationQuery).
		POST("", h.CashReport.Create).
		GET("", h.CashReport.List)

	tenant.Group("reconciliation", "/reconciliation").Use(staff, middleware.StationAccess("stationId")).
		POST("", h.Reconciliation.Run).
		GET("", h.Reconciliation.List).
		GET("/stations/:stationId/days/:date", h.Reconciliation.GetByDay).
		GET("/stations/:stationId/days/:date/summary", h.Reconciliation.DailySummary).
		GET("/:id", h.Reconciliation.Get).
		POST("/:id/approve", h.Reconciliation.Approve).
		GET("/:id/pdf", h.Reconciliation.PDF)

	tenant.Group("sales", "/sales").Use(anyone, stationQuery).
		GET("", h.Sale.List).
		GET("/analytics", h.Sale.Analytics)

	tenant.Group("deliveries", "/fuel-deliveries").Use(staff, stationQuery).
		POST("", h.Inventory.CreateDelivery).
		GET("", h.Inventory.ListDeliveries)

	tenant.Group("inventory", "/inventory").Use(staff, stationQuery).
		GET("", h.Inventory.List).
		PUT("", h.Inventory.Update)

	tenant.Group("alerts", "/alerts").Use(anyone, stationQuery).
		GET("", h.Alert.List).
		GET("/count", h.Alert.Count).
		PATCH("/:id/read", h.Alert.Acknowledge)

	tenant.Group("reports", "/reports").Use(staff, stationQuery).
		GET("/sales", h.Report.ExportSales).
		GET("/financial", h.Report.Financial).
		POST("/schedules", h.Report.CreateSchedule).
		GET("/schedules", h.Report.ListSchedules).
		DELETE("/schedules/:id", h.Report.DeleteSchedule)

	tenant.Group("dashboard", "/dashboard").Use(anyone, stationQuery).
		GET("", h.Report.Dashboard)

	tenant.Group("analytics", "/analytics").Use(staff, stationQuery).
		GET("", h.Report.Analytics)

	tenant.Group("plan", "/plan").Use(owner).
		GET("/usage", h.Station.PlanUsage)

	return []RouteRegistrar{health, auth, admin, tenant}
}
