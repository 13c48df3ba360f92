package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReadingRepository implements ReadingRepository using GORM
type GormReadingRepository struct {
	db *gorm.DB
}

// NewGormReadingRepository creates a new GormReadingRepository
func NewGormReadingRepository(db *gorm.DB) *GormReadingRepository {
	return &GormReadingRepository{db: db}
}

// Save creates or updates a reading
func (r *GormReadingRepository) Save(ctx context.Context, reading *sales.Reading) error {
	return r.db.WithContext(ctx).Save(models.ReadingModelFromDomain(reading)).Error
}

// FindByID finds a reading by ID
func (r *GormReadingRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Reading, error) {
	var m models.ReadingModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Reading")
	}
	return m.ToDomain(), nil
}

// LastActive returns the latest non-voided reading of a nozzle
func (r *GormReadingRepository) LastActive(ctx context.Context, tenantID, nozzleID uuid.UUID) (*sales.Reading, error) {
	var m models.ReadingModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("nozzle_id = ? AND voided = ?", nozzleID, false).
		Order("recorded_at DESC, created_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// PreviousActive returns the non-voided reading recorded before the given one
func (r *GormReadingRepository) PreviousActive(ctx context.Context, tenantID uuid.UUID, reading *sales.Reading) (*sales.Reading, error) {
	var m models.ReadingModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("nozzle_id = ? AND voided = ? AND id <> ?", reading.NozzleID, false, reading.ID).
		Where("recorded_at < ? OR (recorded_at = ? AND created_at < ?)",
			reading.RecordedAt, reading.RecordedAt, reading.CreatedAt).
		Order("recorded_at DESC, created_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

type readingViewRow struct {
	ID              uuid.UUID
	NozzleID        uuid.UUID
	NozzleNumber    int
	FuelType        string
	PumpID          uuid.UUID
	PumpName        string
	StationID       uuid.UUID
	StationName     string
	Reading         decimal.Decimal
	PreviousReading decimal.NullDecimal
	RecordedAt      time.Time
	PaymentMethod   string
	Voided          bool
	RecordedBy      sql.NullString
}

// FindViews lists readings with display names and the previous active
// reading of the same nozzle
func (r *GormReadingRepository) FindViews(ctx context.Context, tenantID uuid.UUID, filter sales.ReadingFilter) ([]sales.ReadingView, error) {
	query := r.db.WithContext(ctx).Table("nozzle_readings nr").
		Select(`nr.id, nr.nozzle_id, n.nozzle_number, n.fuel_type, p.id AS pump_id, p.name AS pump_name,
			nr.station_id, s.name AS station_name, nr.reading, nr.recorded_at, nr.payment_method, nr.voided,
			u.name AS recorded_by,
			(SELECT r2.reading FROM nozzle_readings r2
				WHERE r2.nozzle_id = nr.nozzle_id AND r2.voided = ?
					AND (r2.recorded_at < nr.recorded_at
						OR (r2.recorded_at = nr.recorded_at AND r2.created_at < nr.created_at))
				ORDER BY r2.recorded_at DESC, r2.created_at DESC LIMIT 1) AS previous_reading`, false).
		Joins("JOIN nozzles n ON n.id = nr.nozzle_id").
		Joins("JOIN pumps p ON p.id = n.pump_id").
		Joins("JOIN stations s ON s.id = nr.station_id").
		Joins("LEFT JOIN users u ON u.id = nr.recorded_by").
		Scopes(tenant.ScopeTable("nr", tenantID))

	if filter.NozzleID != nil {
		query = query.Where("nr.nozzle_id = ?", *filter.NozzleID)
	}
	if filter.StationID != nil {
		query = query.Where("nr.station_id = ?", *filter.StationID)
	}
	if filter.StationIDs != nil {
		query = query.Where("nr.station_id IN ?", nonEmptyIDs(filter.StationIDs))
	}
	if filter.From != nil {
		query = query.Where("nr.recorded_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("nr.recorded_at < ?", filter.To.UTC())
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []readingViewRow
	if err := query.Order("nr.recorded_at DESC, nr.created_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]sales.ReadingView, len(rows))
	for i, row := range rows {
		v := sales.ReadingView{
			ID:            row.ID,
			NozzleID:      row.NozzleID,
			NozzleNumber:  row.NozzleNumber,
			FuelType:      row.FuelType,
			PumpID:        row.PumpID,
			PumpName:      row.PumpName,
			StationID:     row.StationID,
			StationName:   row.StationName,
			Reading:       row.Reading,
			RecordedAt:    row.RecordedAt.UTC(),
			PaymentMethod: sales.PaymentMethod(row.PaymentMethod),
			Voided:        row.Voided,
			RecordedBy:    row.RecordedBy.String,
		}
		if row.PreviousReading.Valid {
			prev := row.PreviousReading.Decimal
			v.PreviousReading = &prev
		}
		views[i] = v
	}
	return views, nil
}

// CountByNozzle counts all readings of a nozzle, voided included
func (r *GormReadingRepository) CountByNozzle(ctx context.Context, tenantID, nozzleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReadingModel{}).Scopes(tenant.Scope(tenantID)).
		Where("nozzle_id = ?", nozzleID).
		Count(&count).Error
	return count, err
}

type lastReadingRow struct {
	NozzleID   uuid.UUID
	RecordedAt time.Time
}

// LastRecordedAtByNozzle maps nozzles to their latest active reading time
func (r *GormReadingRepository) LastRecordedAtByNozzle(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	var rows []lastReadingRow
	err := r.db.WithContext(ctx).Table("nozzle_readings nr").
		Select("nr.nozzle_id, nr.recorded_at").
		Scopes(tenant.ScopeTable("nr", tenantID)).
		Where("nr.voided = ?", false).
		Where(`NOT EXISTS (SELECT 1 FROM nozzle_readings r2
			WHERE r2.nozzle_id = nr.nozzle_id AND r2.voided = ? AND r2.recorded_at > nr.recorded_at)`, false).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]time.Time, len(rows))
	for _, row := range rows {
		out[row.NozzleID] = row.RecordedAt.UTC()
	}
	return out, nil
}

// nonEmptyIDs keeps IN clauses valid for an empty allow-list
func nonEmptyIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}
