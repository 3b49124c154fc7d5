package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormMemberRepository implements community.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID within a tenant
func (r *GormMemberRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*community.Member, error) {
	var model models.MemberModel
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

// FindAll finds all members for a tenant matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]community.Member, error) {
	query := r.db.WithContext(ctx).Model(&models.MemberModel{}).Scopes(tenant.Scope(tenantID))
	query = r.applySearch(query, filter)
	query = applyFilter(query, filter, MemberSortFields)

	var memberModels []models.MemberModel
	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]community.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *community.Member) error {
	model := &models.MemberModel{}
	model.FromDomain(member)
	model.SearchName = foldText(member.Name)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a member within a tenant
func (r *GormMemberRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		Delete(&models.MemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts members for a tenant matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MemberModel{}).Scopes(tenant.Scope(tenantID))
	query = r.applySearch(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAllForTenant removes every member belonging to a tenant
func (r *GormMemberRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.MemberModel{}).Error
}

func (r *GormMemberRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		folded := "%" + foldText(filter.Search) + "%"
		query = query.Where("search_name LIKE ? OR email LIKE ? OR cpf LIKE ?", folded, pattern, pattern)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	return query
}
