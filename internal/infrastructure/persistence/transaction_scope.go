package persistence

import (
	"context"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/station"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos unitofwork.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// GormRepositories binds every repository to one database handle
type GormRepositories struct {
	db *gorm.DB
}

// NewRepositories creates the repository set for a database handle or transaction
func NewRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

// Plans returns the identity.PlanRepository bound to the handle
func (r *GormRepositories) Plans() identity.PlanRepository {
	return NewGormPlanRepository(r.db)
}

// Tenants returns the identity.TenantRepository bound to the handle
func (r *GormRepositories) Tenants() identity.TenantRepository {
	return NewGormTenantRepository(r.db)
}

// Users returns the identity.UserRepository bound to the handle
func (r *GormRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.db)
}

// Admins returns the identity.AdminUserRepository bound to the handle
func (r *GormRepositories) Admins() identity.AdminUserRepository {
	return NewGormAdminUserRepository(r.db)
}

// Stations returns the station.StationRepository bound to the handle
func (r *GormRepositories) Stations() station.StationRepository {
	return NewGormStationRepository(r.db)
}

// Pumps returns the station.PumpRepository bound to the handle
func (r *GormRepositories) Pumps() station.PumpRepository {
	return NewGormPumpRepository(r.db)
}

// Nozzles returns the station.NozzleRepository bound to the handle
func (r *GormRepositories) Nozzles() station.NozzleRepository {
	return NewGormNozzleRepository(r.db)
}

// Prices returns the pricing.PriceRepository bound to the handle
func (r *GormRepositories) Prices() pricing.PriceRepository {
	return NewGormPriceRepository(r.db)
}

// Readings returns the sales.ReadingRepository bound to the handle
func (r *GormRepositories) Readings() sales.ReadingRepository {
	return NewGormReadingRepository(r.db)
}

// Sales returns the sales.SaleRepository bound to the handle
func (r *GormRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.db)
}

// Creditors returns the credit.CreditorRepository bound to the handle
func (r *GormRepositories) Creditors() credit.CreditorRepository {
	return NewGormCreditorRepository(r.db)
}

// Payments returns the credit.PaymentRepository bound to the handle
func (r *GormRepositories) Payments() credit.PaymentRepository {
	return NewGormCreditPaymentRepository(r.db)
}

// Inventory returns the inventory.Repository bound to the handle
func (r *GormRepositories) Inventory() inventory.Repository {
	return NewGormInventoryRepository(r.db)
}

// Deliveries returns the inventory.DeliveryRepository bound to the handle
func (r *GormRepositories) Deliveries() inventory.DeliveryRepository {
	return NewGormDeliveryRepository(r.db)
}

// Reconciliations returns the reconciliation.Repository bound to the handle
func (r *GormRepositories) Reconciliations() reconciliation.Repository {
	return NewGormReconciliationRepository(r.db)
}

// CashReports returns the reconciliation.CashReportRepository bound to the handle
func (r *GormRepositories) CashReports() reconciliation.CashReportRepository {
	return NewGormCashReportRepository(r.db)
}

// Alerts returns the alert.Repository bound to the handle
func (r *GormRepositories) Alerts() alert.Repository {
	return NewGormAlertRepository(r.db)
}

// Reports returns the report.Repository bound to the handle
func (r *GormRepositories) Reports() report.Repository {
	return NewGormReportRepository(r.db)
}

// ReportSchedules returns the report.ScheduleRepository bound to the handle
func (r *GormRepositories) ReportSchedules() report.ScheduleRepository {
	return NewGormScheduleRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ unitofwork.TransactionScope = (*GormTransactionScope)(nil)

// Ensure GormRepositories implements Repositories
var _ unitofwork.Repositories = (*GormRepositories)(nil)
