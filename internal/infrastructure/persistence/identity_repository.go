package persistence

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Plan, error) {
	var m models.PlanModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "Plan")
	}
	return m.ToDomain(), nil
}

// FindByName finds a plan by its unique name
func (r *GormPlanRepository) FindByName(ctx context.Context, name string) (*identity.Plan, error) {
	var m models.PlanModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, notFound(err, "Plan")
	}
	return m.ToDomain(), nil
}

// FindAll lists every plan ordered by name
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]identity.Plan, error) {
	var rows []models.PlanModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make([]identity.Plan, len(rows))
	for i := range rows {
		plans[i] = *rows[i].ToDomain()
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *identity.Plan) error {
	err := r.db.WithContext(ctx).Save(models.PlanModelFromDomain(plan)).Error
	return duplicate(err, "Plan name already exists")
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PlanModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Plan not found")
	}
	return nil
}

// CountTenants counts non-deleted tenants on the plan
func (r *GormPlanRepository) CountTenants(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantRecord{}).
		Where("plan_id = ? AND status <> ?", planID, identity.TenantStatusDeleted).
		Count(&count).Error
	return count, err
}

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var m models.TenantRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "Tenant")
	}
	return m.ToDomain(), nil
}

// LockByID loads the tenant row FOR UPDATE
func (r *GormTenantRepository) LockByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var m models.TenantRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "Tenant")
	}
	return m.ToDomain(), nil
}

// FindByName finds a non-deleted tenant by name
func (r *GormTenantRepository) FindByName(ctx context.Context, name string) (*identity.Tenant, error) {
	var m models.TenantRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND status <> ?", name, identity.TenantStatusDeleted).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, "Tenant")
	}
	return m.ToDomain(), nil
}

// FindAll lists tenants with status filter, search and pagination
func (r *GormTenantRepository) FindAll(ctx context.Context, filter identity.TenantFilter) ([]identity.Tenant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TenantRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status <> ?", identity.TenantStatusDeleted)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TenantRecord
	if err := applyPage(query, filter.Filter, TenantSortFields, "created_at", "").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	tenants := make([]identity.Tenant, len(rows))
	for i := range rows {
		tenants[i] = *rows[i].ToDomain()
	}
	return tenants, total, nil
}

// FindActiveIDs returns the IDs of all active tenants
func (r *GormTenantRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.TenantRecord{}).
		Where("status = ?", identity.TenantStatusActive).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// CountByStatus counts tenants grouped by status
func (r *GormTenantRepository) CountByStatus(ctx context.Context) (map[identity.TenantStatus]int64, error) {
	var rows []struct {
		Status identity.TenantStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.TenantRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[identity.TenantStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return r.db.WithContext(ctx).Save(models.TenantRecordFromDomain(t)).Error
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID within a tenant
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "User")
	}
	return m.ToDomain(), nil
}

// FindByEmail finds a user by email within a tenant
func (r *GormUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	var m models.UserModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(email) = LOWER(?)", email).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, "User")
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) FindTenantIDsByEmail(ctx context.Context, email string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN tenants ON tenants.id = users.tenant_id").
		Where("LOWER(users.email) = LOWER(?) AND tenants.status <> ?", email, string(identity.TenantStatusDeleted)).
		Distinct().
		Pluck("users.tenant_id", &ids).Error
	return ids, err
}

// FindAll lists users of a tenant with search and pagination
func (r *GormUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if role, ok := filter.Filters["role"].(string); ok && role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := applyPage(query, filter, UserSortFields, "created_at", "").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// ExistsByEmail checks whether the email is taken within the tenant
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

// CountByTenant counts the users of a tenant
func (r *GormUserRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(tenant.Scope(tenantID)).Count(&count).Error
	return count, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	err := r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
	return duplicate(err, "Email already registered")
}

// Delete removes a user and its station assignments
func (r *GormUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Scopes(tenant.Scope(tenantID)).Where("user_id = ?", id).Delete(&models.UserStationModel{}).Error; err != nil {
		return err
	}
	result := db.Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "User not found")
	}
	return nil
}

// ReplaceStations replaces the user's station assignments
func (r *GormUserRepository) ReplaceStations(ctx context.Context, tenantID, userID uuid.UUID, stationIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Scopes(tenant.Scope(tenantID)).Where("user_id = ?", userID).Delete(&models.UserStationModel{}).Error; err != nil {
		return err
	}
	if len(stationIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]models.UserStationModel, 0, len(stationIDs))
	seen := make(map[uuid.UUID]bool, len(stationIDs))
	for _, id := range stationIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.UserStationModel{UserID: userID, StationID: id, TenantID: tenantID, CreatedAt: now})
	}
	return db.Create(&rows).Error
}

// ListStationIDs returns the stations assigned to a user
func (r *GormUserRepository) ListStationIDs(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserStationModel{}).Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("station_id", &ids).Error
	return ids, err
}

// HasStationAccess reports whether the user is assigned to the station
func (r *GormUserRepository) HasStationAccess(ctx context.Context, tenantID, userID, stationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserStationModel{}).Scopes(tenant.Scope(tenantID)).
		Where("user_id = ? AND station_id = ?", userID, stationID).
		Count(&count).Error
	return count > 0, err
}

// GormAdminUserRepository implements AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var m models.AdminUserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "Admin user")
	}
	return m.ToDomain(), nil
}

// FindByEmail finds an admin by email
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var m models.AdminUserModel
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&m).Error; err != nil {
		return nil, notFound(err, "Admin user")
	}
	return m.ToDomain(), nil
}

// FindAll lists all admins
func (r *GormAdminUserRepository) FindAll(ctx context.Context) ([]identity.AdminUser, error) {
	var rows []models.AdminUserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	admins := make([]identity.AdminUser, len(rows))
	for i := range rows {
		admins[i] = *rows[i].ToDomain()
	}
	return admins, nil
}

// Count counts all admins
func (r *GormAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminUserModel{}).Count(&count).Error
	return count, err
}

// Save creates or updates an admin
func (r *GormAdminUserRepository) Save(ctx context.Context, admin *identity.AdminUser) error {
	err := r.db.WithContext(ctx).Save(models.AdminUserModelFromDomain(admin)).Error
	return duplicate(err, "Email already registered")
}

// Delete removes an admin
func (r *GormAdminUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminUserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "Admin user not found")
	}
	return nil
}
