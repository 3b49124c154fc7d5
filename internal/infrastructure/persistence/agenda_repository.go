package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/agenda"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormEventRepository implements agenda.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID within a tenant
func (r *GormEventRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Event, error) {
	var model models.EventModel
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

// FindAll finds all events for a tenant matching the filter
func (r *GormEventRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]agenda.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.EventModel{}).Scopes(tenant.Scope(tenantID))
	if eventType, ok := filter.Filters["type"].(string); ok && eventType != "" {
		query = query.Where("type = ?", eventType)
	}
	query = applyFilter(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"title": true, "type": true, "date": true,
	})

	var eventModels []models.EventModel
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]agenda.Event, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// FindBetween finds a tenant's events in the half-open interval [from, to)
func (r *GormEventRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]agenda.Event, error) {
	var eventModels []models.EventModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]agenda.Event, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *agenda.Event) error {
	model := &models.EventModel{}
	model.FromDomain(event)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an event within a tenant
func (r *GormEventRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		Delete(&models.EventModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant removes every event belonging to a tenant
func (r *GormEventRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.EventModel{}).Error
}

// GormCourseRepository implements agenda.CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by ID within a tenant
func (r *GormCourseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Course, error) {
	var model models.CourseModel
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

// FindAll finds all courses for a tenant matching the filter
func (r *GormCourseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]agenda.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.CourseModel{}).Scopes(tenant.Scope(tenantID))
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	query = applyFilter(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"title": true, "active": true,
	})

	var courseModels []models.CourseModel
	if err := query.Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]agenda.Course, len(courseModels))
	for i, model := range courseModels {
		courses[i] = *model.ToDomain()
	}
	return courses, nil
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, course *agenda.Course) error {
	model := &models.CourseModel{}
	model.FromDomain(course)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a course within a tenant
func (r *GormCourseRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).Where("id = ?", id).
		Delete(&models.CourseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant removes every course belonging to a tenant
func (r *GormCourseRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.CourseModel{}).Error
}
