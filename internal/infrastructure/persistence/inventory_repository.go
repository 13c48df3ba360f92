package persistence

import (
	"context"
	"errors"

	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) lock(ctx context.Context, tenantID, stationID uuid.UUID, fuel station.FuelType) (*inventory.Inventory, error) {
	var m models.InventoryModel
	err := r.db.WithContext(ctx).Clauses(forUpdate).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ? AND fuel_type = ?", stationID, fuel).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// LockOrCreate locks the stock row of a station fuel type, creating an empty
// row first when none exists
func (r *GormInventoryRepository) LockOrCreate(ctx context.Context, tenantID, stationID uuid.UUID, fuel station.FuelType) (*inventory.Inventory, error) {
	inv, err := r.lock(ctx, tenantID, stationID, fuel)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fresh := models.InventoryModelFromDomain(inventory.NewInventory(tenantID, stationID, fuel))
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, err
	}
	inv, err = r.lock(ctx, tenantID, stationID, fuel)
	if err != nil {
		return nil, notFound(err, "Inventory")
	}
	return inv, nil
}

type inventoryRow struct {
	models.InventoryModel
	StationName string
}

// FindAll lists stock rows with station names
func (r *GormInventoryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID) ([]inventory.InventoryView, error) {
	query := r.db.WithContext(ctx).Table("fuel_inventory fi").
		Select("fi.*, s.name AS station_name").
		Joins("JOIN stations s ON s.id = fi.station_id").
		Scopes(tenant.ScopeTable("fi", tenantID))
	if stationID != nil {
		query = query.Where("fi.station_id = ?", *stationID)
	}
	var rows []inventoryRow
	if err := query.Order("s.name ASC, fi.fuel_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.InventoryView, len(rows))
	for i := range rows {
		out[i] = inventory.InventoryView{Inventory: *rows[i].ToDomain(), StationName: rows[i].StationName}
	}
	return out, nil
}

// Save updates a stock row
func (r *GormInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return r.db.WithContext(ctx).Save(models.InventoryModelFromDomain(inv)).Error
}

// GormDeliveryRepository implements inventory.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Save records a delivery
func (r *GormDeliveryRepository) Save(ctx context.Context, d *inventory.Delivery) error {
	return r.db.WithContext(ctx).Save(models.DeliveryModelFromDomain(d)).Error
}

// FindAll lists recent deliveries, newest first
func (r *GormDeliveryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, limit int) ([]inventory.Delivery, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []models.DeliveryModel
	if err := query.Order("delivered_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.Delivery, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}
