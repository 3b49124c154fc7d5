package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingsModel stores one configuration document per tenant as JSON.
type SettingsModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primary_key"`
	Payload   string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "tenant_settings"
}

// GlobalSettingsModel stores the single installation-wide configuration
// document as JSON. There is at most one row.
type GlobalSettingsModel struct {
	ID        int       `gorm:"primary_key"`
	Payload   string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GlobalSettingsModel) TableName() string {
	return "global_settings"
}
