package models

import (
	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/audit"
)

// AuditEntryModel is the persistence model for audit Entry records.
// Rows are append-only.
type AuditEntryModel struct {
	BaseModel
	TenantID   *uuid.UUID     `gorm:"type:uuid;index"`
	TenantName string         `gorm:"type:varchar(200)"`
	Action     string         `gorm:"type:varchar(200);not null"`
	Category   audit.Category `gorm:"type:varchar(30);not null;index"`
	Severity   audit.Severity `gorm:"type:varchar(20);not null;index"`
	Detail     string         `gorm:"type:text"`
	Actor      string         `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		TenantName: m.TenantName,
		Action:     m.Action,
		Category:   m.Category,
		Severity:   m.Severity,
		Detail:     m.Detail,
		Actor:      m.Actor,
	}
}

// FromDomain populates the persistence model from a domain audit Entry
func (m *AuditEntryModel) FromDomain(e *audit.Entry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.TenantName = e.TenantName
	m.Action = e.Action
	m.Category = e.Category
	m.Severity = e.Severity
	m.Detail = e.Detail
	m.Actor = e.Actor
}
