package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
	"github.com/terreiro/backend/internal/infrastructure/persistence/tenant"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Find returns the stored settings for a tenant; the boolean is false when
// none were stored yet
func (r *GormSettingsRepository) Find(ctx context.Context, tenantID uuid.UUID) (settings.Settings, bool, error) {
	var model models.SettingsModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, err
	}

	var s settings.Settings
	if err := json.Unmarshal([]byte(model.Payload), &s); err != nil {
		// A corrupt payload is treated as absent so defaults apply
		return settings.Settings{}, false, nil
	}
	return s, true, nil
}

// Save upserts a tenant's settings document
func (r *GormSettingsRepository) Save(ctx context.Context, tenantID uuid.UUID, s settings.Settings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	now := time.Now()
	model := models.SettingsModel{
		TenantID:  tenantID,
		Payload:   string(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&model).Error
}

// DeleteForTenant removes a tenant's settings document
func (r *GormSettingsRepository) DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.SettingsModel{}).Error
}

// globalRowID is the fixed key of the single installation-wide row
const globalRowID = 1

// FindGlobal returns the installation-wide record; the boolean is false when
// none was stored yet
func (r *GormSettingsRepository) FindGlobal(ctx context.Context) (settings.Global, bool, error) {
	var model models.GlobalSettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", globalRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.Global{}, false, nil
		}
		return settings.Global{}, false, err
	}

	var g settings.Global
	if err := json.Unmarshal([]byte(model.Payload), &g); err != nil {
		return settings.Global{}, false, nil
	}
	return g, true, nil
}

// SaveGlobal upserts the installation-wide record
func (r *GormSettingsRepository) SaveGlobal(ctx context.Context, g settings.Global) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return err
	}

	now := time.Now()
	model := models.GlobalSettingsModel{
		ID:        globalRowID,
		Payload:   string(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&model).Error
}
