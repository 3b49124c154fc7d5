package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Category classifies audit entries by operational area
type Category string

const (
	CategoryClientManagement Category = "client_management"
	CategoryFinancial        Category = "financial"
	CategorySecurity         Category = "security"
	CategorySystem           Category = "system"
)

// Severity grades audit entries
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityDanger   Severity = "danger"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryClientManagement, CategoryFinancial, CategorySecurity, CategorySystem:
		return true
	}
	return false
}

// IsValid reports whether the severity is known
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityDanger, SeverityCritical:
		return true
	}
	return false
}

// Entry is one immutable audit-log record. Every tenant lifecycle transition,
// manual or automatic, appends exactly one entry.
type Entry struct {
	shared.BaseEntity
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
	TenantName string     `json:"tenant_name,omitempty"`
	Action     string     `json:"action"`
	Category   Category   `json:"category"`
	Severity   Severity   `json:"severity"`
	Detail     string     `json:"detail,omitempty"`
	Actor      string     `json:"actor"`
}

// NewEntry creates a new audit entry
func NewEntry(tenantID *uuid.UUID, tenantName, action string, category Category, severity Severity, detail, actor string) (*Entry, error) {
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid audit category")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Invalid audit severity")
	}
	if actor == "" {
		actor = "system"
	}

	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		TenantName: tenantName,
		Action:     action,
		Category:   category,
		Severity:   severity,
		Detail:     detail,
		Actor:      actor,
	}, nil
}

// OccurredAt returns when the entry was recorded
func (e *Entry) OccurredAt() time.Time {
	return e.CreatedAt
}

// Repository defines the append-only audit log persistence interface.
// Entries are never updated or deleted individually.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, int64, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Entry, int64, error)
}
