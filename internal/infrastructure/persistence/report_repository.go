package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) postedSales(ctx context.Context, tenantID uuid.UUID, filter report.SalesFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Table("sales").
		Scopes(tenant.ScopeTable("sales", tenantID)).
		Where("sales.status = ?", sales.SaleStatusPosted)
	if !filter.From.IsZero() {
		query = query.Where("sales.recorded_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query = query.Where("sales.recorded_at < ?", filter.To.UTC())
	}
	if filter.StationID != nil {
		query = query.Where("sales.station_id = ?", *filter.StationID)
	}
	if filter.StationIDs != nil {
		query = query.Where("sales.station_id IN ?", nonEmptyIDs(filter.StationIDs))
	}
	return query
}

type saleExportRow struct {
	ID            uuid.UUID
	StationID     uuid.UUID
	StationName   string
	FuelType      string
	Volume        decimal.Decimal
	FuelPrice     decimal.Decimal
	CostPrice     decimal.Decimal
	Amount        decimal.Decimal
	Profit        decimal.Decimal
	PaymentMethod string
	CreditorName  sql.NullString
	RecordedAt    time.Time
}

// SaleRows lists posted sales with station and creditor names, oldest first
func (r *GormReportRepository) SaleRows(ctx context.Context, tenantID uuid.UUID, filter report.SalesFilter) ([]report.SaleRow, error) {
	var rows []saleExportRow
	err := r.postedSales(ctx, tenantID, filter).
		Select(`sales.id, sales.station_id, s.name AS station_name, sales.fuel_type, sales.volume,
			sales.fuel_price, sales.cost_price, sales.amount, sales.profit, sales.payment_method,
			c.party_name AS creditor_name, sales.recorded_at`).
		Joins("JOIN stations s ON s.id = sales.station_id").
		Joins("LEFT JOIN creditors c ON c.id = sales.creditor_id").
		Order("sales.recorded_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.SaleRow, len(rows))
	for i, row := range rows {
		out[i] = report.SaleRow{
			ID:            row.ID,
			StationID:     row.StationID,
			StationName:   row.StationName,
			FuelType:      row.FuelType,
			Volume:        shared.RoundVolume(row.Volume),
			FuelPrice:     shared.RoundMoney(row.FuelPrice),
			CostPrice:     shared.RoundMoney(row.CostPrice),
			Amount:        shared.RoundMoney(row.Amount),
			Profit:        shared.RoundMoney(row.Profit),
			PaymentMethod: row.PaymentMethod,
			CreditorName:  row.CreditorName.String,
			RecordedAt:    row.RecordedAt.UTC(),
		}
	}
	return out, nil
}

type financialRow struct {
	StationName      string
	FuelType         string
	TotalVolume      decimal.Decimal
	TotalRevenue     decimal.Decimal
	TotalProfit      decimal.Decimal
	AvgPrice         decimal.Decimal
	TransactionCount int64
}

// Financial totals posted sales per station and fuel type since a point in time
func (r *GormReportRepository) Financial(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, since time.Time) ([]report.FinancialRow, error) {
	var rows []financialRow
	err := r.postedSales(ctx, tenantID, report.SalesFilter{StationID: stationID, From: since}).
		Select(`s.name AS station_name, sales.fuel_type,
			COALESCE(SUM(sales.volume), 0) AS total_volume,
			COALESCE(SUM(sales.amount), 0) AS total_revenue,
			COALESCE(SUM(sales.profit), 0) AS total_profit,
			COALESCE(AVG(sales.fuel_price), 0) AS avg_price,
			COUNT(*) AS transaction_count`).
		Joins("JOIN stations s ON s.id = sales.station_id").
		Group("s.name, sales.fuel_type").
		Order("s.name ASC, sales.fuel_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.FinancialRow, len(rows))
	for i, row := range rows {
		revenue := shared.RoundMoney(row.TotalRevenue)
		profit := shared.RoundMoney(row.TotalProfit)
		out[i] = report.FinancialRow{
			StationName:      row.StationName,
			FuelType:         row.FuelType,
			TotalVolume:      shared.RoundVolume(row.TotalVolume),
			TotalRevenue:     revenue,
			TotalProfit:      profit,
			AvgPrice:         shared.RoundMoney(row.AvgPrice),
			TransactionCount: row.TransactionCount,
			ProfitMargin:     report.ProfitMargin(profit, revenue),
		}
	}
	return out, nil
}

type totalsRow struct {
	Amount   decimal.Decimal
	Volume   decimal.Decimal
	Profit   decimal.Decimal
	TxnCount int64
}

// Totals sums posted sales matching the filter
func (r *GormReportRepository) Totals(ctx context.Context, tenantID uuid.UUID, filter report.SalesFilter) (report.Totals, error) {
	var row totalsRow
	err := r.postedSales(ctx, tenantID, filter).
		Select(`COALESCE(SUM(sales.amount), 0) AS amount, COALESCE(SUM(sales.volume), 0) AS volume,
			COALESCE(SUM(sales.profit), 0) AS profit, COUNT(*) AS txn_count`).
		Scan(&row).Error
	if err != nil {
		return report.Totals{}, err
	}
	return report.Totals{
		Amount: shared.RoundMoney(row.Amount),
		Volume: shared.RoundVolume(row.Volume),
		Profit: shared.RoundMoney(row.Profit),
		Count:  row.TxnCount,
	}, nil
}

type trendRow struct {
	BucketKey string
	Amount    decimal.Decimal
	Volume    decimal.Decimal
	Profit    decimal.Decimal
	TxnCount  int64
}

// bucketExpr formats recorded_at as a UTC day or hour key in the
// connected dialect
func (r *GormReportRepository) bucketExpr(bucket report.Bucket) string {
	if r.db.Dialector.Name() == "sqlite" {
		if bucket == report.BucketHour {
			return "strftime('%H', sales.recorded_at)"
		}
		return "strftime('%Y-%m-%d', sales.recorded_at)"
	}
	if bucket == report.BucketHour {
		return "TO_CHAR(sales.recorded_at AT TIME ZONE 'UTC', 'HH24')"
	}
	return "TO_CHAR(sales.recorded_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}

// Trend totals posted sales per day or hour of day
func (r *GormReportRepository) Trend(ctx context.Context, tenantID uuid.UUID, filter report.SalesFilter, bucket report.Bucket) ([]report.TrendPoint, error) {
	expr := r.bucketExpr(bucket)
	var rows []trendRow
	err := r.postedSales(ctx, tenantID, filter).
		Select(expr + ` AS bucket_key,
			COALESCE(SUM(sales.amount), 0) AS amount,
			COALESCE(SUM(sales.volume), 0) AS volume,
			COALESCE(SUM(sales.profit), 0) AS profit,
			COUNT(*) AS txn_count`).
		Group(expr).
		Order(expr + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.TrendPoint, len(rows))
	for i, row := range rows {
		out[i] = report.TrendPoint{
			Key:    row.BucketKey,
			Amount: shared.RoundMoney(row.Amount),
			Volume: shared.RoundVolume(row.Volume),
			Profit: shared.RoundMoney(row.Profit),
			Count:  row.TxnCount,
		}
	}
	return out, nil
}

// GormScheduleRepository implements report.ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// Save creates or updates a schedule
func (r *GormScheduleRepository) Save(ctx context.Context, s *report.Schedule) error {
	return r.db.WithContext(ctx).Save(models.ReportScheduleModelFromDomain(s)).Error
}

// FindByID finds a schedule by ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*report.Schedule, error) {
	var m models.ReportScheduleModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Report schedule")
	}
	return m.ToDomain(), nil
}

// FindAll lists schedules, soonest run first
func (r *GormScheduleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, stationIDs []uuid.UUID) ([]report.Schedule, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if stationIDs != nil {
		query = query.Where("station_id IS NULL OR station_id IN ?", nonEmptyIDs(stationIDs))
	}
	var rows []models.ReportScheduleModel
	if err := query.Order("next_run_at ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.Schedule, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes a schedule
func (r *GormScheduleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.ReportScheduleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Report schedule not found")
	}
	return nil
}
