package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/finance"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a ledger row by ID within a tenant
func (r *GormTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all ledger rows for a tenant matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Scopes(tenant.Scope(tenantID))
	query = r.applyTypeStatus(query, filter)
	query = applyFilter(query, filter, TransactionSortFields)

	var txModels []models.TransactionModel
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	txs := make([]finance.Transaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs, nil
}

// FindByMonth finds a tenant's ledger rows tagged with a month reference
func (r *GormTransactionRepository) FindByMonth(ctx context.Context, tenantID uuid.UUID, monthRef string) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("month_reference = ?", monthRef).
		Order("date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	txs := make([]finance.Transaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs, nil
}

// Save creates or updates one ledger row
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	model := &models.TransactionModel{}
	model.FromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a batch of ledger rows in one transaction
func (r *GormTransactionRepository) SaveAll(ctx context.Context, txs []*finance.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	txModels := make([]models.TransactionModel, len(txs))
	for i, tx := range txs {
		txModels[i].FromDomain(tx)
	}
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		return dbtx.Save(&txModels).Error
	})
}

// Delete removes a ledger row within a tenant
func (r *GormTransactionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		Delete(&models.TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts ledger rows for a tenant matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Scopes(tenant.Scope(tenantID))
	query = r.applyTypeStatus(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAllForTenant removes every ledger row belonging to a tenant
func (r *GormTransactionRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.TransactionModel{}).Error
}

func (r *GormTransactionRepository) applyTypeStatus(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if txType, ok := filter.Filters["type"].(string); ok && txType != "" {
		query = query.Where("type = ?", txType)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if memberID, ok := filter.Filters["member_id"].(uuid.UUID); ok {
		query = query.Where("member_id = ?", memberID)
	}
	if from, ok := filter.Filters["date_from"].(time.Time); ok {
		query = query.Where("date >= ?", from)
	}
	if to, ok := filter.Filters["date_to"].(time.Time); ok {
		query = query.Where("date < ?", to)
	}
	return query
}
