package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/inventory"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by ID within a tenant
func (r *GormItemRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
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

// FindAll finds all items for a tenant matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	query = applyFilter(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"name": true, "category": true, "quantity": true,
	})

	var itemModels []models.ItemModel
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.Item, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	model := &models.ItemModel{}
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an item within a tenant
func (r *GormItemRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		Delete(&models.ItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant removes every item belonging to a tenant
func (r *GormItemRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.ItemModel{}).Error
}
