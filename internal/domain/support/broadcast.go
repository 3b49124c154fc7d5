package support

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Broadcast is a master-authored announcement delivered to tenants.
// An empty target list means every tenant.
type Broadcast struct {
	shared.BaseAggregateRoot
	Title     string `gorm:"type:varchar(200);not null"`
	Body      string `gorm:"type:text;not null"`
	Author    string `gorm:"type:varchar(100);not null"`
	TargetIDs []uuid.UUID
	ReadBy    []uuid.UUID
}

// NewBroadcast creates a broadcast for the given tenants (nil = all)
func NewBroadcast(title, body, author string, targetIDs []uuid.UUID) (*Broadcast, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Broadcast title cannot be empty")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Broadcast body cannot be empty")
	}

	return &Broadcast{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Body:              body,
		Author:            author,
		TargetIDs:         targetIDs,
	}, nil
}

// Targets reports whether the broadcast reaches the given tenant
func (b *Broadcast) Targets(tenantID uuid.UUID) bool {
	if len(b.TargetIDs) == 0 {
		return true
	}
	for _, id := range b.TargetIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

// MarkRead records that a tenant has seen the broadcast
func (b *Broadcast) MarkRead(tenantID uuid.UUID) {
	for _, id := range b.ReadBy {
		if id == tenantID {
			return
		}
	}
	b.ReadBy = append(b.ReadBy, tenantID)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// BroadcastRepository defines the broadcast persistence interface
type BroadcastRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Broadcast, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Broadcast, error)
	FindForTenant(ctx context.Context, tenantID uuid.UUID) ([]Broadcast, error)
	Save(ctx context.Context, broadcast *Broadcast) error
	Delete(ctx context.Context, id uuid.UUID) error
}
