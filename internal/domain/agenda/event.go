package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Event represents one calendar entry (gira, festa, obrigação, ...)
type Event struct {
	shared.TenantAggregateRoot
	Title string    `gorm:"type:varchar(200);not null"`
	Type  string    `gorm:"type:varchar(100)"`
	Date  time.Time `gorm:"not null;index"`
	Notes string    `gorm:"type:text"`
}

// NewEvent creates a new calendar event
func NewEvent(tenantID uuid.UUID, title, eventType string, date time.Time) (*Event, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Event date is required")
	}

	return &Event{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Type:                eventType,
		Date:                date,
	}, nil
}

// Update changes the event's fields
func (e *Event) Update(title, eventType string, date time.Time, notes string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Event date is required")
	}

	e.Title = title
	e.Type = eventType
	e.Date = date
	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// EventRepository defines the tenant-scoped event persistence interface
type EventRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Event, error)
	FindBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Event, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
