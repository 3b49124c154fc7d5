package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type fakeGateway struct {
	mu      sync.Mutex
	upserts []string
	deletes []string
	failFor map[uuid.UUID]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failFor: make(map[uuid.UUID]error)}
}

func (g *fakeGateway) Upsert(_ context.Context, _ uuid.UUID, collection string, recordID uuid.UUID, _ []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.failFor[recordID]; ok {
		return err
	}
	g.upserts = append(g.upserts, collection+"/"+recordID.String())
	return nil
}

func (g *fakeGateway) Delete(_ context.Context, _ uuid.UUID, collection string, recordID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.failFor[recordID]; ok {
		return err
	}
	g.deletes = append(g.deletes, collection+"/"+recordID.String())
	return nil
}

func setupProcessor(t *testing.T, gateway DocumentGateway) (*OutboxProcessor, shared.OutboxRepository) {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	repo := persistence.NewGormOutboxRepository(database.DB)
	cfg := DefaultOutboxProcessorConfig()
	cfg.CleanupEnabled = false
	return NewOutboxProcessor(repo, gateway, cfg, zap.NewNop()), repo
}

func TestOutboxProcessor_ReplicatesPendingEntries(t *testing.T) {
	ctx := context.Background()
	gateway := newFakeGateway()
	processor, repo := setupProcessor(t, gateway)

	tenantID := uuid.New()
	upsertID := uuid.New()
	deleteID := uuid.New()
	require.NoError(t, repo.Save(ctx,
		shared.NewOutboxEntry(tenantID, "members", upsertID, []byte(`{"name":"Maria"}`)),
		shared.NewOutboxDeletion(tenantID, "inventory_items", deleteID),
	))

	processor.ProcessBatch(ctx)

	assert.Equal(t, []string{"members/" + upsertID.String()}, gateway.upserts)
	assert.Equal(t, []string{"inventory_items/" + deleteID.String()}, gateway.deletes)

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[shared.OutboxStatusSent])
}

func TestOutboxProcessor_FailedEntryIsScheduledForRetry(t *testing.T) {
	ctx := context.Background()
	gateway := newFakeGateway()
	processor, repo := setupProcessor(t, gateway)

	tenantID := uuid.New()
	recordID := uuid.New()
	gateway.failFor[recordID] = errors.New("remote unavailable")

	entry := shared.NewOutboxEntry(tenantID, "members", recordID, []byte(`{}`))
	require.NoError(t, repo.Save(ctx, entry))

	processor.ProcessBatch(ctx)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "remote unavailable")
	require.NotNil(t, stored.NextRetryAt)

	// Once the remote recovers, the retry succeeds.
	delete(gateway.failFor, recordID)
	retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)

	processor.processEntries(ctx, retryable)

	stored, err = repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
}

func TestOutboxProcessor_ExhaustedRetriesMoveToDead(t *testing.T) {
	ctx := context.Background()
	gateway := newFakeGateway()
	processor, repo := setupProcessor(t, gateway)

	tenantID := uuid.New()
	recordID := uuid.New()
	gateway.failFor[recordID] = errors.New("boom")

	entry := shared.NewOutboxEntry(tenantID, "members", recordID, []byte(`{}`))
	entry.MaxRetries = 2
	require.NoError(t, repo.Save(ctx, entry))

	processor.ProcessBatch(ctx)
	for i := 0; i < 3; i++ {
		retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Hour), 10)
		require.NoError(t, err)
		processor.processEntries(ctx, retryable)
	}

	dead, total, err := repo.FindDead(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, dead, 1)
	assert.Equal(t, 2, dead[0].RetryCount)
}

func TestOutboxProcessor_StartAndStop(t *testing.T) {
	gateway := newFakeGateway()
	processor, _ := setupProcessor(t, gateway)

	require.NoError(t, processor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}
