package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/audit"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormAuditRepository implements audit.Repository using GORM.
// The table is append-only; there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append persists one audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	model := &models.AuditEntryModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll returns audit entries matching the filter with the total count
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, int64, error) {
	return r.find(ctx, r.db.WithContext(ctx).Model(&models.AuditEntryModel{}), filter)
}

// FindByTenant returns one tenant's audit entries with the total count
func (r *GormAuditRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]audit.Entry, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).Scopes(tenant.Scope(tenantID))
	return r.find(ctx, base, filter)
}

func (r *GormAuditRepository) find(ctx context.Context, base *gorm.DB, filter shared.Filter) ([]audit.Entry, int64, error) {
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		base = base.Where("category = ?", category)
	}
	if severity, ok := filter.Filters["severity"].(string); ok && severity != "" {
		base = base.Where("severity = ?", severity)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("action LIKE ? OR detail LIKE ? OR tenant_name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyFilter(base, filter, map[string]bool{
		"id": true, "created_at": true, "category": true, "severity": true,
	})

	var entryModels []models.AuditEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]audit.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}
