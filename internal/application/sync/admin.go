package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/shared"
)

// QueueStats summarizes the replication queue by status
type QueueStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
}

// QueueAdmin exposes console operations over the replication outbox
type QueueAdmin struct {
	outbox shared.OutboxRepository
	logger *zap.Logger
}

// NewQueueAdmin creates a new queue admin service
func NewQueueAdmin(outbox shared.OutboxRepository, logger *zap.Logger) *QueueAdmin {
	return &QueueAdmin{outbox: outbox, logger: logger}
}

// Stats counts queue entries per status
func (a *QueueAdmin) Stats(ctx context.Context) (*QueueStats, error) {
	counts, err := a.outbox.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &QueueStats{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}, nil
}

// DeadEntries lists entries that exhausted their retries
func (a *QueueAdmin) DeadEntries(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return a.outbox.FindDead(ctx, page, pageSize)
}

// Retry puts one dead entry back in line for delivery
func (a *QueueAdmin) Retry(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := a.outbox.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := a.outbox.Update(ctx, entry); err != nil {
		return nil, err
	}
	a.logger.Info("Outbox entry queued for retry",
		zap.String("entry_id", entry.ID.String()),
		zap.String("collection", entry.Collection))
	return entry, nil
}

// RetryAll requeues every dead entry, returning how many were reset
func (a *QueueAdmin) RetryAll(ctx context.Context) (int, error) {
	reset := 0
	for {
		entries, _, err := a.outbox.FindDead(ctx, 1, 100)
		if err != nil {
			return reset, err
		}
		if len(entries) == 0 {
			return reset, nil
		}
		for _, entry := range entries {
			if err := entry.ResetForRetry(); err != nil {
				continue
			}
			if err := a.outbox.Update(ctx, entry); err != nil {
				return reset, err
			}
			reset++
		}
	}
}

// Prune deletes sent entries older than the retention window
func (a *QueueAdmin) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	return a.outbox.DeleteOlderThan(ctx, time.Now().Add(-olderThan))
}
