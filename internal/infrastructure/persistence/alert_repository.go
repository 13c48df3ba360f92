package persistence

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAlertRepository implements alert.Repository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Create inserts an alert unless one with the same dedup key already exists.
// It reports whether a row was inserted.
func (r *GormAlertRepository) Create(ctx context.Context, a *alert.Alert) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.AlertModelFromDomain(a))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByID finds an alert by ID
func (r *GormAlertRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*alert.Alert, error) {
	var m models.AlertModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Alert")
	}
	return m.ToDomain(), nil
}

// FindAll lists alerts, newest first
func (r *GormAlertRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter alert.Filter) ([]alert.Alert, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if filter.StationID != nil {
		query = query.Where("station_id = ?", *filter.StationID)
	}
	if filter.StationIDs != nil {
		query = query.Where("station_id IS NULL OR station_id IN ?", nonEmptyIDs(filter.StationIDs))
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.AlertModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]alert.Alert, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountUnread counts unread alerts
func (r *GormAlertRepository) CountUnread(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AlertModel{}).Scopes(tenant.Scope(tenantID)).
		Where("is_read = ?", false)
	if stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Save updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	return r.db.WithContext(ctx).Save(models.AlertModelFromDomain(a)).Error
}
