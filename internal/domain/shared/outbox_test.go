package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEntry(t *testing.T) {
	tenantID := uuid.New()
	recordID := uuid.New()

	entry := NewOutboxEntry(tenantID, "members", recordID, []byte(`{"name":"x"}`))

	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, OutboxOpUpsert, entry.Operation)
	assert.Equal(t, "members", entry.Collection)
	assert.Equal(t, tenantID, entry.TenantID)
	assert.Equal(t, recordID, entry.RecordID)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestNewOutboxDeletion(t *testing.T) {
	entry := NewOutboxDeletion(uuid.New(), "inventory", uuid.New())

	assert.Equal(t, OutboxOpDelete, entry.Operation)
	assert.Nil(t, entry.Payload)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("pending entry can be marked processing", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)

		err := entry.MarkProcessing()

		require.NoError(t, err)
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	})

	t.Run("sent entry cannot be marked processing", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)
		entry.MarkSent()

		err := entry.MarkProcessing()

		assert.Error(t, err)
	})
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retry with backoff", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)

		entry.MarkFailed("connection refused")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "connection refused", entry.LastError)
		assert.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.CanRetry())
	})

	t.Run("moves to dead after max retries", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)

		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("timeout")
		}

		assert.Equal(t, OutboxStatusDead, entry.Status)
		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead entry", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)
		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("timeout")
		}
		require.True(t, entry.IsDead())

		err := entry.ResetForRetry()

		require.NoError(t, err)
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
	})

	t.Run("rejects non-dead entry", func(t *testing.T) {
		entry := NewOutboxEntry(uuid.New(), "members", uuid.New(), nil)

		err := entry.ResetForRetry()

		assert.Error(t, err)
	})
}
