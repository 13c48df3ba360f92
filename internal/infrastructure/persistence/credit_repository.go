package persistence

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditorRepository implements CreditorRepository using GORM
type GormCreditorRepository struct {
	db *gorm.DB
}

// NewGormCreditorRepository creates a new GormCreditorRepository
func NewGormCreditorRepository(db *gorm.DB) *GormCreditorRepository {
	return &GormCreditorRepository{db: db}
}

// FindByID finds a creditor by ID
func (r *GormCreditorRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*credit.Creditor, error) {
	var m models.CreditorModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Creditor")
	}
	return m.ToDomain(), nil
}

// LockByID loads a creditor FOR UPDATE so balance changes serialize
func (r *GormCreditorRepository) LockByID(ctx context.Context, tenantID, id uuid.UUID) (*credit.Creditor, error) {
	var m models.CreditorModel
	err := r.db.WithContext(ctx).Clauses(forUpdate).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "Creditor")
	}
	return m.ToDomain(), nil
}

// FindAll lists creditors with filters and pagination
func (r *GormCreditorRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter credit.CreditorFilter) ([]credit.Creditor, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CreditorModel{}).Scopes(tenant.Scope(tenantID))
	if filter.StationID != nil {
		query = query.Where("station_id = ? OR station_id IS NULL", *filter.StationID)
	}
	if filter.StationIDs != nil {
		query = query.Where("station_id IN ? OR station_id IS NULL", nonEmptyIDs(filter.StationIDs))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(party_name) LIKE ? OR LOWER(contact_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CreditorModel
	if err := applyPage(query, filter.Filter, CreditorSortFields, "party_name", "").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return creditorsToDomain(rows), total, nil
}

// TopOutstanding lists active creditors with the highest balances
func (r *GormCreditorRepository) TopOutstanding(ctx context.Context, tenantID uuid.UUID, limit int) ([]credit.Creditor, error) {
	var rows []models.CreditorModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("status = ? AND balance > 0", credit.CreditorActive).
		Order("balance DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return creditorsToDomain(rows), nil
}

// Save creates or updates a creditor
func (r *GormCreditorRepository) Save(ctx context.Context, c *credit.Creditor) error {
	return r.db.WithContext(ctx).Save(models.CreditorModelFromDomain(c)).Error
}

func creditorsToDomain(rows []models.CreditorModel) []credit.Creditor {
	out := make([]credit.Creditor, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormCreditPaymentRepository implements PaymentRepository using GORM
type GormCreditPaymentRepository struct {
	db *gorm.DB
}

// NewGormCreditPaymentRepository creates a new GormCreditPaymentRepository
func NewGormCreditPaymentRepository(db *gorm.DB) *GormCreditPaymentRepository {
	return &GormCreditPaymentRepository{db: db}
}

// Save records a payment
func (r *GormCreditPaymentRepository) Save(ctx context.Context, p *credit.Payment) error {
	return r.db.WithContext(ctx).Save(models.CreditPaymentModelFromDomain(p)).Error
}

// FindByCreditor lists a creditor's payments, newest first
func (r *GormCreditPaymentRepository) FindByCreditor(ctx context.Context, tenantID, creditorID uuid.UUID) ([]credit.Payment, error) {
	var rows []models.CreditPaymentModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("creditor_id = ?", creditorID).
		Order("received_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]credit.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}
