package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/domain/support"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormTicketRepository implements support.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by its ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns tickets across all tenants, for the master console
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Ticket, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.TicketModel{})
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyFilter(base, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true, "status": true,
	})

	var ticketModels []models.TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, 0, err
	}

	tickets := make([]support.Ticket, len(ticketModels))
	for i, model := range ticketModels {
		tickets[i] = *model.ToDomain()
	}
	return tickets, total, nil
}

// FindByTenant returns a tenant's tickets
func (r *GormTicketRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.TicketModel{}).Scopes(tenant.Scope(tenantID)),
		filter,
		map[string]bool{"id": true, "created_at": true, "updated_at": true, "status": true},
	)

	var ticketModels []models.TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]support.Ticket, len(ticketModels))
	for i, model := range ticketModels {
		tickets[i] = *model.ToDomain()
	}
	return tickets, nil
}

// Save creates or updates a ticket
func (r *GormTicketRepository) Save(ctx context.Context, ticket *support.Ticket) error {
	model := &models.TicketModel{}
	model.FromDomain(ticket)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteAllForTenant removes every ticket belonging to a tenant
func (r *GormTicketRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.TicketModel{}).Error
}

// GormBroadcastRepository implements support.BroadcastRepository using GORM
type GormBroadcastRepository struct {
	db *gorm.DB
}

// NewGormBroadcastRepository creates a new GormBroadcastRepository
func NewGormBroadcastRepository(db *gorm.DB) *GormBroadcastRepository {
	return &GormBroadcastRepository{db: db}
}

// FindByID finds a broadcast by its ID
func (r *GormBroadcastRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Broadcast, error) {
	var model models.BroadcastModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all broadcasts, newest first
func (r *GormBroadcastRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Broadcast, error) {
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.BroadcastModel{}),
		filter, CommonSortFields,
	)

	var broadcastModels []models.BroadcastModel
	if err := query.Find(&broadcastModels).Error; err != nil {
		return nil, err
	}

	broadcasts := make([]support.Broadcast, len(broadcastModels))
	for i, model := range broadcastModels {
		broadcasts[i] = *model.ToDomain()
	}
	return broadcasts, nil
}

// FindForTenant returns the broadcasts reaching a tenant. Targeting is a
// JSON list so the filter happens in memory; broadcast volume is small.
func (r *GormBroadcastRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) ([]support.Broadcast, error) {
	var broadcastModels []models.BroadcastModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&broadcastModels).Error; err != nil {
		return nil, err
	}

	broadcasts := make([]support.Broadcast, 0, len(broadcastModels))
	for _, model := range broadcastModels {
		b := model.ToDomain()
		if b.Targets(tenantID) {
			broadcasts = append(broadcasts, *b)
		}
	}
	return broadcasts, nil
}

// Save creates or updates a broadcast
func (r *GormBroadcastRepository) Save(ctx context.Context, broadcast *support.Broadcast) error {
	model := &models.BroadcastModel{}
	model.FromDomain(broadcast)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a broadcast
func (r *GormBroadcastRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BroadcastModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
