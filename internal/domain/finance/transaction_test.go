package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	t.Run("creates transaction successfully", func(t *testing.T) {
		tx, err := NewTransaction(uuid.New(), TypeDonation, decimal.NewFromInt(25), time.Now(), StatusPaid, "Doação festa")

		require.NoError(t, err)
		assert.Equal(t, TypeDonation, tx.Type)
		assert.Equal(t, SourceManual, tx.Source)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TransactionType("tithe"), decimal.Zero, time.Now(), StatusPaid, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TypeDonation, decimal.Zero, time.Now(), TransactionStatus("void"), "")
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TypeExpense, decimal.NewFromInt(-1), time.Now(), StatusPaid, "")
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TypeExpense, decimal.Zero, time.Time{}, StatusPaid, "")
		assert.Error(t, err)
	})
}

func TestNewMigratedTransaction(t *testing.T) {
	t.Run("fixes date to the 5th of the reference month", func(t *testing.T) {
		tx, err := NewMigratedTransaction(uuid.New(), uuid.New(), "2023-07", decimal.NewFromInt(60))

		require.NoError(t, err)
		assert.Equal(t, TypeMensalidade, tx.Type)
		assert.Equal(t, StatusPaid, tx.Status)
		assert.Equal(t, SourceMigration, tx.Source)
		assert.Equal(t, "2023-07", tx.MonthReference)
		assert.Equal(t, time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC), tx.Date)
		assert.NotNil(t, tx.MemberID)
	})

	t.Run("rejects malformed month reference", func(t *testing.T) {
		_, err := NewMigratedTransaction(uuid.New(), uuid.New(), "07/2023", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestTransaction_MarkPaid(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), TypeMensalidade, decimal.NewFromInt(50), time.Now(), StatusPending, "")
	require.NoError(t, err)

	require.NoError(t, tx.MarkPaid())
	assert.Equal(t, StatusPaid, tx.Status)

	assert.Error(t, tx.MarkPaid())
}

func TestTransaction_Update(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), TypeMensalidade, decimal.NewFromInt(50), time.Now(), StatusPaid, "")
	require.NoError(t, err)

	newDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tx.Update(decimal.NewFromInt(55), newDate, StatusPartial, "ajuste"))

	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(55)))
	assert.Equal(t, StatusPartial, tx.Status)
	assert.Equal(t, newDate, tx.Date)
}
