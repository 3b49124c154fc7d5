package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// OutboxEntryModel is the persistence model for sync outbox entries.
type OutboxEntryModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Collection  string                 `gorm:"type:varchar(50);not null"`
	RecordID    uuid.UUID              `gorm:"type:uuid;not null"`
	Operation   shared.OutboxOperation `gorm:"type:varchar(10);not null"`
	Payload     []byte                 `gorm:"type:jsonb"`
	Status      shared.OutboxStatus    `gorm:"type:varchar(20);not null;index"`
	RetryCount  int                    `gorm:"not null;default:0"`
	MaxRetries  int                    `gorm:"not null;default:5"`
	LastError   string                 `gorm:"type:text"`
	NextRetryAt *time.Time             `gorm:"index"`
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OutboxEntryModel) TableName() string {
	return "sync_outbox"
}

// ToDomain converts the persistence model to a domain OutboxEntry
func (m *OutboxEntryModel) ToDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Collection:  m.Collection,
		RecordID:    m.RecordID,
		Operation:   m.Operation,
		Payload:     m.Payload,
		Status:      m.Status,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		LastError:   m.LastError,
		NextRetryAt: m.NextRetryAt,
		ProcessedAt: m.ProcessedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OutboxEntry
func (m *OutboxEntryModel) FromDomain(e *shared.OutboxEntry) {
	m.ID = e.ID
	m.TenantID = e.TenantID
	m.Collection = e.Collection
	m.RecordID = e.RecordID
	m.Operation = e.Operation
	m.Payload = e.Payload
	m.Status = e.Status
	m.RetryCount = e.RetryCount
	m.MaxRetries = e.MaxRetries
	m.LastError = e.LastError
	m.NextRetryAt = e.NextRetryAt
	m.ProcessedAt = e.ProcessedAt
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
