package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, s *sales.Sale) error {
	return r.db.WithContext(ctx).Save(models.SaleModelFromDomain(s)).Error
}

// FindByReading finds the sale derived from a reading
func (r *GormSaleRepository) FindByReading(ctx context.Context, tenantID, readingID uuid.UUID) (*sales.Sale, error) {
	var m models.SaleModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("reading_id = ?", readingID).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Sale")
	}
	return m.ToDomain(), nil
}

type saleViewRow struct {
	models.SaleModel
	StationName  string
	PumpName     string
	NozzleNumber int
	CreditorName sql.NullString
}

// FindViews lists posted sales with display names and pagination
func (r *GormSaleRepository) FindViews(ctx context.Context, tenantID uuid.UUID, filter sales.SaleFilter) ([]sales.SaleView, int64, error) {
	query := r.db.WithContext(ctx).Table("sales").
		Joins("JOIN stations s ON s.id = sales.station_id").
		Joins("JOIN nozzles n ON n.id = sales.nozzle_id").
		Joins("JOIN pumps p ON p.id = n.pump_id").
		Joins("LEFT JOIN creditors c ON c.id = sales.creditor_id").
		Scopes(tenant.ScopeTable("sales", tenantID)).
		Where("sales.status = ?", sales.SaleStatusPosted)

	if filter.StationID != nil {
		query = query.Where("sales.station_id = ?", *filter.StationID)
	}
	if filter.StationIDs != nil {
		query = query.Where("sales.station_id IN ?", nonEmptyIDs(filter.StationIDs))
	}
	if filter.From != nil {
		query = query.Where("sales.recorded_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("sales.recorded_at < ?", filter.To.UTC())
	}
	if filter.PaymentMethod != "" {
		query = query.Where("sales.payment_method = ?", filter.PaymentMethod)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Filter
	if page.OrderBy == "" {
		page.OrderBy = "recorded_at"
	}
	var rows []saleViewRow
	err := applyPage(query, page, SaleSortFields, "recorded_at", "sales.").
		Select("sales.*, s.name AS station_name, p.name AS pump_name, n.nozzle_number, c.party_name AS creditor_name").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	views := make([]sales.SaleView, len(rows))
	for i := range rows {
		views[i] = sales.SaleView{
			Sale:         *rows[i].ToDomain(),
			StationName:  rows[i].StationName,
			PumpName:     rows[i].PumpName,
			NozzleNumber: rows[i].NozzleNumber,
			CreditorName: rows[i].CreditorName.String,
		}
	}
	return views, total, nil
}

type aggregateRow struct {
	GroupKey   string
	GroupLabel string
	Volume     decimal.Decimal
	Amount     decimal.Decimal
	Profit     decimal.Decimal
	TxnCount   int64
	AvgPrice   decimal.Decimal
}

// Aggregate totals posted sales grouped by a dimension
func (r *GormSaleRepository) Aggregate(ctx context.Context, tenantID uuid.UUID, by sales.GroupBy, from, to time.Time, stationID *uuid.UUID) ([]sales.Aggregate, error) {
	var key, label string
	query := r.db.WithContext(ctx).Table("sales").Scopes(tenant.ScopeTable("sales", tenantID))
	switch by {
	case sales.GroupByStation:
		key, label = "sales.station_id", "s.name"
		query = query.Joins("JOIN stations s ON s.id = sales.station_id")
	case sales.GroupByPump:
		key, label = "p.id", "s.name || ' / ' || p.name"
		query = query.
			Joins("JOIN stations s ON s.id = sales.station_id").
			Joins("JOIN nozzles n ON n.id = sales.nozzle_id").
			Joins("JOIN pumps p ON p.id = n.pump_id")
	case sales.GroupByFuelType:
		key, label = "sales.fuel_type", "sales.fuel_type"
	case sales.GroupByPaymentMethod:
		key, label = "sales.payment_method", "sales.payment_method"
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid group by: %s", by)
	}

	query = query.Where("sales.status = ? AND sales.recorded_at >= ? AND sales.recorded_at < ?",
		sales.SaleStatusPosted, from.UTC(), to.UTC())
	if stationID != nil {
		query = query.Where("sales.station_id = ?", *stationID)
	}

	var rows []aggregateRow
	err := query.Select(fmt.Sprintf(`%s AS group_key, %s AS group_label,
			COALESCE(SUM(sales.volume), 0) AS volume,
			COALESCE(SUM(sales.amount), 0) AS amount,
			COALESCE(SUM(sales.profit), 0) AS profit,
			COUNT(*) AS txn_count,
			COALESCE(AVG(sales.fuel_price), 0) AS avg_price`, key, label)).
		Group(key + ", " + label).
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]sales.Aggregate, len(rows))
	for i, row := range rows {
		out[i] = sales.Aggregate{
			Key:      row.GroupKey,
			Label:    row.GroupLabel,
			Volume:   shared.RoundVolume(row.Volume),
			Amount:   shared.RoundMoney(row.Amount),
			Profit:   shared.RoundMoney(row.Profit),
			Count:    row.TxnCount,
			AvgPrice: shared.RoundMoney(row.AvgPrice),
		}
	}
	return out, nil
}

type methodTotalRow struct {
	PaymentMethod string
	Amount        decimal.Decimal
}

// TotalsByPaymentMethod totals a station's posted sales per payment method
func (r *GormSaleRepository) TotalsByPaymentMethod(ctx context.Context, tenantID, stationID uuid.UUID, from, to time.Time) (map[sales.PaymentMethod]decimal.Decimal, error) {
	var rows []methodTotalRow
	err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Select("payment_method, COALESCE(SUM(amount), 0) AS amount").
		Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND status = ? AND recorded_at >= ? AND recorded_at < ?",
			stationID, sales.SaleStatusPosted, from.UTC(), to.UTC()).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[sales.PaymentMethod]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[sales.PaymentMethod(row.PaymentMethod)] = shared.RoundMoney(row.Amount)
	}
	return out, nil
}

// NozzleDeltas returns recent posted sale volumes of a nozzle, newest first
func (r *GormSaleRepository) NozzleDeltas(ctx context.Context, tenantID, nozzleID uuid.UUID, limit int) ([]decimal.Decimal, error) {
	var volumes []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("nozzle_id = ? AND status = ? AND reading_id IS NOT NULL", nozzleID, sales.SaleStatusPosted).
		Order("recorded_at DESC").
		Limit(limit).
		Pluck("volume", &volumes).Error
	return volumes, err
}
