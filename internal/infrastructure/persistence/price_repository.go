package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceRepository implements PriceRepository using GORM
type GormPriceRepository struct {
	db *gorm.DB
}

// NewGormPriceRepository creates a new GormPriceRepository
func NewGormPriceRepository(db *gorm.DB) *GormPriceRepository {
	return &GormPriceRepository{db: db}
}

// Save creates or updates a price row
func (r *GormPriceRepository) Save(ctx context.Context, price *pricing.FuelPrice) error {
	return r.db.WithContext(ctx).Save(models.FuelPriceModelFromDomain(price)).Error
}

// FindByID finds a price by ID
func (r *GormPriceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pricing.FuelPrice, error) {
	var m models.FuelPriceModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Fuel price")
	}
	return m.ToDomain(), nil
}

// FindAll lists price rows, newest first
func (r *GormPriceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter pricing.PriceFilter) ([]pricing.FuelPrice, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if filter.StationID != nil {
		query = query.Where("station_id = ?", *filter.StationID)
	}
	if filter.FuelType != "" {
		query = query.Where("fuel_type = ?", filter.FuelType)
	}
	var rows []models.FuelPriceModel
	if err := query.Order("valid_from DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return pricesToDomain(rows), nil
}

// PriceAt returns the price effective at the given instant
func (r *GormPriceRepository) PriceAt(ctx context.Context, tenantID, stationID uuid.UUID, fuel station.FuelType, at time.Time) (*pricing.FuelPrice, error) {
	var m models.FuelPriceModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND fuel_type = ? AND valid_from <= ?", stationID, fuel, at.UTC()).
		Order("valid_from DESC, created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrPriceNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Current returns the latest effective price per fuel type for a station
func (r *GormPriceRepository) Current(ctx context.Context, tenantID, stationID uuid.UUID) ([]pricing.FuelPrice, error) {
	var rows []models.FuelPriceModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND valid_from <= ?", stationID, time.Now().UTC()).
		Order("fuel_type ASC, valid_from DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	latest := make([]models.FuelPriceModel, 0, len(station.FuelTypes))
	seen := make(map[station.FuelType]bool)
	for _, row := range rows {
		if seen[row.FuelType] {
			continue
		}
		seen[row.FuelType] = true
		latest = append(latest, row)
	}
	return pricesToDomain(latest), nil
}

func pricesToDomain(rows []models.FuelPriceModel) []pricing.FuelPrice {
	out := make([]pricing.FuelPrice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
