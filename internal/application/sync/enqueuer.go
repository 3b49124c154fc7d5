// Package sync queues local mutations for replication to the remote
// document store.
package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Collection names in the remote document store
const (
	CollectionTenants   = "tenants"
	CollectionMembers   = "members"
	CollectionLedger    = "transactions"
	CollectionInventory = "inventory_items"
	CollectionEvents    = "agenda_events"
	CollectionCourses   = "courses"
	CollectionTickets   = "support_tickets"
	CollectionSettings  = "settings"
)

// Enqueuer records outbox entries alongside local writes. When replication
// is disabled every method is a no-op, so services call it unconditionally.
type Enqueuer struct {
	outbox  shared.OutboxRepository
	enabled bool
	logger  *zap.Logger
}

// NewEnqueuer creates an enqueuer backed by the outbox repository
func NewEnqueuer(outbox shared.OutboxRepository, enabled bool, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{
		outbox:  outbox,
		enabled: enabled,
		logger:  logger,
	}
}

// Upsert queues a document write for a record
func (e *Enqueuer) Upsert(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID, doc interface{}) error {
	if !e.enabled {
		return nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize %s document: %w", collection, err)
	}

	entry := shared.NewOutboxEntry(tenantID, collection, recordID, payload)
	if err := e.outbox.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue %s upsert: %w", collection, err)
	}

	e.logger.Debug("queued remote upsert",
		zap.String("collection", collection),
		zap.String("record_id", recordID.String()),
	)
	return nil
}

// Delete queues a document deletion for a record
func (e *Enqueuer) Delete(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID) error {
	if !e.enabled {
		return nil
	}

	entry := shared.NewOutboxDeletion(tenantID, collection, recordID)
	if err := e.outbox.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue %s delete: %w", collection, err)
	}
	return nil
}

// DropTenantQueue removes every queued entry for a tenant. Called after the
// remote purge during tenant deletion; the queued writes are moot once the
// remote data is gone.
func (e *Enqueuer) DropTenantQueue(ctx context.Context, tenantID uuid.UUID) error {
	if !e.enabled {
		return nil
	}
	return e.outbox.DeleteForTenant(ctx, tenantID)
}

// Enabled reports whether replication is configured
func (e *Enqueuer) Enabled() bool {
	return e.enabled
}
