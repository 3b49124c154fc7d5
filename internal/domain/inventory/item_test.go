package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("creates item successfully", func(t *testing.T) {
		item, err := NewItem(uuid.New(), "Vela branca", "velas", 40, decimal.NewFromFloat(2.5))

		require.NoError(t, err)
		assert.Equal(t, 40, item.Quantity)
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewItem(uuid.New(), "Vela branca", "velas", -1, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewItem(uuid.New(), "Vela branca", "velas", 0, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestItem_Consume(t *testing.T) {
	t.Run("decrements stock", func(t *testing.T) {
		item, err := NewItem(uuid.New(), "Vela branca", "velas", 10, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, item.Consume(4))
		assert.Equal(t, 6, item.Quantity)
	})

	t.Run("rejects consuming more than stock", func(t *testing.T) {
		item, err := NewItem(uuid.New(), "Vela branca", "velas", 3, decimal.Zero)
		require.NoError(t, err)

		assert.Error(t, item.Consume(4))
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item, err := NewItem(uuid.New(), "Vela branca", "velas", 3, decimal.Zero)
		require.NoError(t, err)

		assert.Error(t, item.Consume(0))
	})
}

func TestItem_BelowMinimum(t *testing.T) {
	item, err := NewItem(uuid.New(), "Ervas", "ervas", 5, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, item.Update("Ervas", "ervas", decimal.Zero, 5))

	assert.False(t, item.BelowMinimum())

	require.NoError(t, item.Consume(1))
	assert.True(t, item.BelowMinimum())
}
