package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
)

// GormPlanRepository implements identity.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByName finds a plan by its unique name
func (r *GormPlanRepository) FindByName(ctx context.Context, name string) (*identity.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every plan ordered by price
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]identity.Plan, error) {
	var planModels []models.PlanModel
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]identity.Plan, len(planModels))
	for i, model := range planModels {
		plans[i] = *model.ToDomain()
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *identity.Plan) error {
	model := &models.PlanModel{}
	model.FromDomain(plan)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a plan by name
func (r *GormPlanRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Delete(&models.PlanModel{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
