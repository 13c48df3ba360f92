package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReconciliationRepository implements reconciliation.Repository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByID finds a reconciliation by ID
func (r *GormReconciliationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.DayReconciliation, error) {
	var m models.DayReconciliationModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Reconciliation")
	}
	return m.ToDomain(), nil
}

// FindByDay returns the reconciliation of a station day, or nil when none exists
func (r *GormReconciliationRepository) FindByDay(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (*reconciliation.DayReconciliation, error) {
	var m models.DayReconciliationModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND business_date = ?", stationID, shared.StartOfDay(date)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists recent reconciliations, newest day first
func (r *GormReconciliationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, limit int) ([]reconciliation.DayReconciliation, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}
	if limit <= 0 {
		limit = 30
	}
	var rows []models.DayReconciliationModel
	if err := query.Order("business_date DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]reconciliation.DayReconciliation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// IsFinalized reports whether the station day containing at is closed
func (r *GormReconciliationRepository) IsFinalized(ctx context.Context, tenantID, stationID uuid.UUID, at time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DayReconciliationModel{}).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND business_date = ? AND finalized = ?", stationID, shared.StartOfDay(at), true).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a reconciliation
func (r *GormReconciliationRepository) Save(ctx context.Context, rec *reconciliation.DayReconciliation) error {
	err := r.db.WithContext(ctx).Save(models.DayReconciliationModelFromDomain(rec)).Error
	return duplicate(err, "Reconciliation already exists for this day")
}

type summaryRow struct {
	ReadingID       uuid.UUID
	NozzleID        uuid.UUID
	NozzleNumber    int
	PumpName        string
	FuelType        string
	PreviousReading decimal.NullDecimal
	CurrentReading  decimal.Decimal
	PricePerLitre   decimal.NullDecimal
	SaleValue       decimal.NullDecimal
	PaymentMethod   sql.NullString
	RecordedAt      time.Time
}

// DailySummary lists the day's active readings with previous reading and sale value
func (r *GormReconciliationRepository) DailySummary(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) ([]reconciliation.SummaryRow, error) {
	day := shared.Day(date)
	var rows []summaryRow
	err := r.db.WithContext(ctx).Table("nozzle_readings nr").
		Select(`nr.id AS reading_id, nr.nozzle_id, n.nozzle_number, p.name AS pump_name, n.fuel_type,
			(SELECT r2.reading FROM nozzle_readings r2
				WHERE r2.nozzle_id = nr.nozzle_id AND r2.voided = ?
					AND (r2.recorded_at < nr.recorded_at
						OR (r2.recorded_at = nr.recorded_at AND r2.created_at < nr.created_at))
				ORDER BY r2.recorded_at DESC, r2.created_at DESC LIMIT 1) AS previous_reading,
			nr.reading AS current_reading, sa.fuel_price AS price_per_litre, sa.amount AS sale_value,
			COALESCE(sa.payment_method, nr.payment_method) AS payment_method, nr.recorded_at`, false).
		Joins("JOIN nozzles n ON n.id = nr.nozzle_id").
		Joins("JOIN pumps p ON p.id = n.pump_id").
		Joins("LEFT JOIN sales sa ON sa.reading_id = nr.id AND sa.status = ?", sales.SaleStatusPosted).
		Scopes(tenant.ScopeTable("nr", tenantID)).
		Where("nr.station_id = ? AND nr.voided = ? AND nr.recorded_at >= ? AND nr.recorded_at < ?",
			stationID, false, day.From, day.To).
		Order("p.name ASC, n.nozzle_number ASC, nr.recorded_at ASC, nr.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]reconciliation.SummaryRow, len(rows))
	for i, row := range rows {
		prev := decimal.Zero
		if row.PreviousReading.Valid {
			prev = row.PreviousReading.Decimal
		}
		out[i] = reconciliation.SummaryRow{
			ReadingID:       row.ReadingID,
			NozzleID:        row.NozzleID,
			NozzleNumber:    row.NozzleNumber,
			PumpName:        row.PumpName,
			FuelType:        row.FuelType,
			PreviousReading: shared.RoundVolume(prev),
			CurrentReading:  shared.RoundVolume(row.CurrentReading),
			DeltaVolume:     shared.RoundVolume(row.CurrentReading.Sub(prev)),
			PricePerLitre:   shared.RoundMoney(row.PricePerLitre.Decimal),
			SaleValue:       shared.RoundMoney(row.SaleValue.Decimal),
			PaymentMethod:   row.PaymentMethod.String,
			RecordedAt:      row.RecordedAt.UTC(),
		}
	}
	return out, nil
}

// GormCashReportRepository implements reconciliation.CashReportRepository using GORM
type GormCashReportRepository struct {
	db *gorm.DB
}

// NewGormCashReportRepository creates a new GormCashReportRepository
func NewGormCashReportRepository(db *gorm.DB) *GormCashReportRepository {
	return &GormCashReportRepository{db: db}
}

// Save creates or updates a cash report
func (r *GormCashReportRepository) Save(ctx context.Context, report *reconciliation.CashReport) error {
	return r.db.WithContext(ctx).Save(models.CashReportModelFromDomain(report)).Error
}

// FindAll lists cash reports, newest first
func (r *GormCashReportRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter reconciliation.CashReportFilter) ([]reconciliation.CashReport, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if filter.StationID != nil {
		query = query.Where("station_id = ?", *filter.StationID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("report_date >= ?", shared.StartOfDay(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("report_date < ?", shared.StartOfDay(*filter.To))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}
	var rows []models.CashReportModel
	if err := query.Order("report_date DESC, created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]reconciliation.CashReport, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

type declaredRow struct {
	Cash   decimal.Decimal
	Card   decimal.Decimal
	UPI    decimal.Decimal `gorm:"column:upi"`
	Credit decimal.Decimal
}

// DeclaredTotals sums the cash reports of a station day
func (r *GormCashReportRepository) DeclaredTotals(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (reconciliation.Totals, error) {
	var row declaredRow
	err := r.db.WithContext(ctx).Model(&models.CashReportModel{}).
		Select(`COALESCE(SUM(cash_amount), 0) AS cash, COALESCE(SUM(card_amount), 0) AS card,
			COALESCE(SUM(upi_amount), 0) AS upi, COALESCE(SUM(credit_amount), 0) AS credit`).
		Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND report_date = ?", stationID, shared.StartOfDay(date)).
		Scan(&row).Error
	if err != nil {
		return reconciliation.Totals{}, err
	}
	return reconciliation.Totals{
		Cash:   shared.RoundMoney(row.Cash),
		Card:   shared.RoundMoney(row.Card),
		UPI:    shared.RoundMoney(row.UPI),
		Credit: shared.RoundMoney(row.Credit),
	}, nil
}

// ExistsForDay reports whether any cash report was filed for the station day
func (r *GormCashReportRepository) ExistsForDay(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CashReportModel{}).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND report_date = ?", stationID, shared.StartOfDay(date)).
		Count(&count).Error
	return count > 0, err
}
