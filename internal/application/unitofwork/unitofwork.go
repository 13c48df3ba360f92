// Package unitofwork defines the repository set and transaction scope that
// application services use for multi-step writes.
package unitofwork

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/station"
)

// Repositories gives access to every repository bound to one database
// handle. Inside TransactionScope.Execute the handle is the transaction.
type Repositories interface {
	Plans() identity.PlanRepository
	Tenants() identity.TenantRepository
	Users() identity.UserRepository
	Admins() identity.AdminUserRepository
	Stations() station.StationRepository
	Pumps() station.PumpRepository
	Nozzles() station.NozzleRepository
	Prices() pricing.PriceRepository
	Readings() sales.ReadingRepository
	Sales() sales.SaleRepository
	Creditors() credit.CreditorRepository
	Payments() credit.PaymentRepository
	Reconciliations() reconciliation.Repository
	CashReports() reconciliation.CashReportRepository
	Inventory() inventory.Repository
	Deliveries() inventory.DeliveryRepository
	Alerts() alert.Repository
	Reports() report.Repository
	ReportSchedules() report.ScheduleRepository
}

// TransactionScope runs fn atomically. If fn returns an error the
// transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
