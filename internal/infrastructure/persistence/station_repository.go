package persistence

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStationRepository implements StationRepository using GORM
type GormStationRepository struct {
	db *gorm.DB
}

// NewGormStationRepository creates a new GormStationRepository
func NewGormStationRepository(db *gorm.DB) *GormStationRepository {
	return &GormStationRepository{db: db}
}

type stationRow struct {
	models.StationModel
	PumpCount int64
}

// FindByID finds a station by ID
func (r *GormStationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*station.Station, error) {
	var m models.StationModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Station")
	}
	return m.ToDomain(), nil
}

// LockByID loads a station FOR UPDATE
func (r *GormStationRepository) LockByID(ctx context.Context, tenantID, id uuid.UUID) (*station.Station, error) {
	return r.findLocked(ctx, tenantID, id, forUpdate)
}

// ShareByID loads a station FOR SHARE
func (r *GormStationRepository) ShareByID(ctx context.Context, tenantID, id uuid.UUID) (*station.Station, error) {
	return r.findLocked(ctx, tenantID, id, forShare)
}

func (r *GormStationRepository) findLocked(ctx context.Context, tenantID, id uuid.UUID, lock clause.Locking) (*station.Station, error) {
	var m models.StationModel
	err := r.db.WithContext(ctx).Clauses(lock).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Station")
	}
	return m.ToDomain(), nil
}

// FindAll lists stations with their pump counts
func (r *GormStationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]station.StationSummary, int64, error) {
	query := r.db.WithContext(ctx).Table("stations").Scopes(tenant.ScopeTable("stations", tenantID))
	if filter.Search != "" {
		query = query.Where("LOWER(stations.name) LIKE ?", likePattern(filter.Search))
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("stations.status = ?", status)
	}
	if ids, ok := filter.Filters["ids"].([]uuid.UUID); ok {
		query = query.Where("stations.id IN ?", ids)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []stationRow
	err := applyPage(query, filter, StationSortFields, "name", "stations.").
		Select("stations.*, (SELECT COUNT(*) FROM pumps p WHERE p.station_id = stations.id) AS pump_count").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]station.StationSummary, len(rows))
	for i := range rows {
		out[i] = station.StationSummary{Station: *rows[i].ToDomain(), PumpCount: rows[i].PumpCount}
	}
	return out, total, nil
}

// FindByIDs loads the given stations of a tenant
func (r *GormStationRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]station.Station, error) {
	if len(ids) == 0 {
		return []station.Station{}, nil
	}
	var rows []models.StationModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]station.Station, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for another station with the same name in the tenant
func (r *GormStationRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.StationModel{}).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// CountByTenant counts the stations of a tenant
func (r *GormStationRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StationModel{}).Scopes(tenant.Scope(tenantID)).Count(&count).Error
	return count, err
}

// Save creates or updates a station
func (r *GormStationRepository) Save(ctx context.Context, s *station.Station) error {
	err := r.db.WithContext(ctx).Save(models.StationModelFromDomain(s)).Error
	return duplicate(err, "Station name already exists")
}

// Delete removes a station
func (r *GormStationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.StationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Station not found")
	}
	return nil
}

// GormPumpRepository implements PumpRepository using GORM
type GormPumpRepository struct {
	db *gorm.DB
}

// NewGormPumpRepository creates a new GormPumpRepository
func NewGormPumpRepository(db *gorm.DB) *GormPumpRepository {
	return &GormPumpRepository{db: db}
}

type pumpRow struct {
	models.PumpModel
	NozzleCount int64
}

// FindByID finds a pump by ID
func (r *GormPumpRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*station.Pump, error) {
	var m models.PumpModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Pump")
	}
	return m.ToDomain(), nil
}

// FindByStation lists a station's pumps with their nozzle counts
func (r *GormPumpRepository) FindByStation(ctx context.Context, tenantID, stationID uuid.UUID) ([]station.PumpSummary, error) {
	var rows []pumpRow
	err := r.db.WithContext(ctx).Table("pumps").
		Scopes(tenant.ScopeTable("pumps", tenantID)).
		Select("pumps.*, (SELECT COUNT(*) FROM nozzles n WHERE n.pump_id = pumps.id) AS nozzle_count").
		Where("pumps.station_id = ?", stationID).
		Order("pumps.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]station.PumpSummary, len(rows))
	for i := range rows {
		out[i] = station.PumpSummary{Pump: *rows[i].ToDomain(), NozzleCount: rows[i].NozzleCount}
	}
	return out, nil
}

// FindInMaintenance lists pumps currently in maintenance
func (r *GormPumpRepository) FindInMaintenance(ctx context.Context, tenantID uuid.UUID) ([]station.Pump, error) {
	var rows []models.PumpModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("status = ?", station.StatusMaintenance).
		Order("updated_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]station.Pump, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByStation counts the pumps of a station
func (r *GormPumpRepository) CountByStation(ctx context.Context, tenantID, stationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PumpModel{}).Scopes(tenant.Scope(tenantID)).
		Where("station_id = ?", stationID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a pump
func (r *GormPumpRepository) Save(ctx context.Context, p *station.Pump) error {
	return r.db.WithContext(ctx).Save(models.PumpModelFromDomain(p)).Error
}

// Delete removes a pump
func (r *GormPumpRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.PumpModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Pump not found")
	}
	return nil
}

// GormNozzleRepository implements NozzleRepository using GORM
type GormNozzleRepository struct {
	db *gorm.DB
}

// NewGormNozzleRepository creates a new GormNozzleRepository
func NewGormNozzleRepository(db *gorm.DB) *GormNozzleRepository {
	return &GormNozzleRepository{db: db}
}

type nozzleRow struct {
	models.NozzleModel
	StationID   uuid.UUID
	StationName string
	PumpName    string
}

func (row *nozzleRow) toLocation() station.NozzleLocation {
	return station.NozzleLocation{
		Nozzle:      *row.NozzleModel.ToDomain(),
		StationID:   row.StationID,
		StationName: row.StationName,
		PumpName:    row.PumpName,
	}
}

func (r *GormNozzleRepository) locationQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Table("nozzles n").
		Select("n.*, p.station_id AS station_id, s.name AS station_name, p.name AS pump_name").
		Joins("JOIN pumps p ON p.id = n.pump_id").
		Joins("JOIN stations s ON s.id = p.station_id").
		Scopes(tenant.ScopeTable("n", tenantID))
}

// FindByID finds a nozzle by ID
func (r *GormNozzleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*station.Nozzle, error) {
	var m models.NozzleModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Nozzle")
	}
	return m.ToDomain(), nil
}

// LockLocation locks the nozzle row FOR UPDATE and returns its location
func (r *GormNozzleRepository) LockLocation(ctx context.Context, tenantID, id uuid.UUID) (*station.NozzleLocation, error) {
	var m models.NozzleModel
	err := r.db.WithContext(ctx).Clauses(forUpdate).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Nozzle")
	}
	return r.FindLocation(ctx, tenantID, id)
}

// FindLocation loads a nozzle with its pump and station
func (r *GormNozzleRepository) FindLocation(ctx context.Context, tenantID, id uuid.UUID) (*station.NozzleLocation, error) {
	var rows []nozzleRow
	if err := r.locationQuery(ctx, tenantID).Where("n.id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Nozzle not found")
	}
	loc := rows[0].toLocation()
	return &loc, nil
}

// FindAll lists nozzles with their locations
func (r *GormNozzleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter station.NozzleFilter) ([]station.NozzleLocation, error) {
	query := r.locationQuery(ctx, tenantID)
	if filter.PumpID != nil {
		query = query.Where("n.pump_id = ?", *filter.PumpID)
	}
	if filter.StationID != nil {
		query = query.Where("p.station_id = ?", *filter.StationID)
	}
	if filter.FuelType != "" {
		query = query.Where("n.fuel_type = ?", filter.FuelType)
	}
	if filter.Status != "" {
		query = query.Where("n.status = ?", filter.Status)
	}

	var rows []nozzleRow
	if err := query.Order("s.name ASC, p.name ASC, n.nozzle_number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]station.NozzleLocation, len(rows))
	for i := range rows {
		out[i] = rows[i].toLocation()
	}
	return out, nil
}

// CountByPump counts the nozzles of a pump
func (r *GormNozzleRepository) CountByPump(ctx context.Context, tenantID, pumpID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NozzleModel{}).Scopes(tenant.Scope(tenantID)).
		Where("pump_id = ?", pumpID).
		Count(&count).Error
	return count, err
}

// ExistsNumber checks whether the nozzle number is taken on the pump
func (r *GormNozzleRepository) ExistsNumber(ctx context.Context, tenantID, pumpID uuid.UUID, number int, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.NozzleModel{}).Scopes(tenant.Scope(tenantID)).
		Where("pump_id = ? AND nozzle_number = ?", pumpID, number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a nozzle
func (r *GormNozzleRepository) Save(ctx context.Context, n *station.Nozzle) error {
	err := r.db.WithContext(ctx).Save(models.NozzleModelFromDomain(n)).Error
	return duplicate(err, "Nozzle number already exists on this pump")
}

// Delete removes a nozzle
func (r *GormNozzleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.NozzleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Nozzle not found")
	}
	return nil
}
