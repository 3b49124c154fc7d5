package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormDataMigrationRepository records applied one-time data migrations.
// Each (tenant, marker) pair is written at most once, so reruns are
// detected by the marker rather than by inspecting migrated data.
type GormDataMigrationRepository struct {
	db *gorm.DB
}

// NewGormDataMigrationRepository creates a new GormDataMigrationRepository
func NewGormDataMigrationRepository(db *gorm.DB) *GormDataMigrationRepository {
	return &GormDataMigrationRepository{db: db}
}

// HasApplied reports whether the marker was already applied for the tenant
func (r *GormDataMigrationRepository) HasApplied(ctx context.Context, tenantID uuid.UUID, marker string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DataMigrationModel{}).
		Scopes(tenant.Scope(tenantID)).Where("marker = ?", marker).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkApplied records the marker as applied for the tenant
func (r *GormDataMigrationRepository) MarkApplied(ctx context.Context, tenantID uuid.UUID, marker, detail string) error {
	return r.db.WithContext(ctx).Create(&models.DataMigrationModel{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Marker:    marker,
		AppliedAt: time.Now(),
		Detail:    detail,
	}).Error
}

// DeleteForTenant removes a tenant's migration markers
func (r *GormDataMigrationRepository) DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.DataMigrationModel{}).Error
}
