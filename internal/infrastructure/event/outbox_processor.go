package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/shared"
)

// DocumentGateway pushes replicated records to the remote document store
type DocumentGateway interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID, payload []byte) error
	Delete(ctx context.Context, tenantID uuid.UUID, collection string, recordID uuid.UUID) error
}

// OutboxProcessorConfig holds configuration for the outbox processor
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxProcessorConfig returns default configuration
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour, // 7 days
		CleanupInterval:  1 * time.Hour,
	}
}

// OutboxProcessor drains the sync outbox in the background, replicating
// local mutations to the remote document store with bounded retries.
type OutboxProcessor struct {
	repo    shared.OutboxRepository
	gateway DocumentGateway
	config  OutboxProcessorConfig
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxProcessor creates a new outbox processor
func NewOutboxProcessor(
	repo shared.OutboxRepository,
	gateway DocumentGateway,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:    repo,
		gateway: gateway,
		config:  config,
		logger:  logger,
	}
}

// Start starts the background processing
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)

	return nil
}

// Stop gracefully stops the processor
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processLoop is the main processing loop
func (p *OutboxProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch drains one batch of pending and retryable entries. Exposed so
// callers can force an immediate drain, e.g. a manual "sync now" action.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) {
	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find pending entries", zap.Error(err))
		return
	}
	p.processEntries(ctx, pending)

	retryable, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find retryable entries", zap.Error(err))
		return
	}
	p.processEntries(ctx, retryable)
}

func (p *OutboxProcessor) processEntries(ctx context.Context, entries []*shared.OutboxEntry) {
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		p.processEntry(ctx, entry)
	}
}

// processEntry claims and replicates a single outbox entry
func (p *OutboxProcessor) processEntry(ctx context.Context, entry *shared.OutboxEntry) {
	if err := entry.MarkProcessing(); err != nil {
		p.logger.Warn("skipping outbox entry",
			zap.String("entry_id", entry.ID.String()),
			zap.Error(err),
		)
		return
	}
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to claim outbox entry", zap.Error(err))
		return
	}

	var pushErr error
	switch entry.Operation {
	case shared.OutboxOpDelete:
		pushErr = p.gateway.Delete(ctx, entry.TenantID, entry.Collection, entry.RecordID)
	default:
		pushErr = p.gateway.Upsert(ctx, entry.TenantID, entry.Collection, entry.RecordID, entry.Payload)
	}

	if pushErr != nil {
		entry.MarkFailed(pushErr.Error())
		if entry.IsDead() {
			p.logger.Warn("outbox entry moved to dead letter queue",
				zap.String("entry_id", entry.ID.String()),
				zap.String("tenant_id", entry.TenantID.String()),
				zap.String("collection", entry.Collection),
				zap.String("record_id", entry.RecordID.String()),
				zap.Int("retry_count", entry.RetryCount),
				zap.String("last_error", entry.LastError),
			)
		}
		if updateErr := p.repo.Update(ctx, entry); updateErr != nil {
			p.logger.Error("failed to update entry", zap.Error(updateErr))
		}
		return
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to mark entry as sent",
			zap.String("entry_id", entry.ID.String()),
			zap.Error(err),
		)
	} else {
		p.logger.Debug("outbox entry replicated",
			zap.String("entry_id", entry.ID.String()),
			zap.String("collection", entry.Collection),
		)
	}
}

// cleanupLoop periodically removes old sent entries
func (p *OutboxProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cleanup(ctx)
		}
	}
}

func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to cleanup old entries", zap.Error(err))
		return
	}

	if deleted > 0 {
		p.logger.Info("cleaned up old outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
