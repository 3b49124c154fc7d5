package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_WithDefaults(t *testing.T) {
	t.Run("fills everything from an empty config", func(t *testing.T) {
		got := Settings{}.WithDefaults()

		assert.NotEmpty(t, got.Roles)
		assert.NotEmpty(t, got.Permissions)
		assert.NotEmpty(t, got.Palette.Primary)
		assert.NotEmpty(t, got.PontoCategories)
		assert.NotEmpty(t, got.EventTypes)
		assert.False(t, got.Pricing.MediumMonthly.IsZero())
	})

	t.Run("preserves user additions and restores built-ins", func(t *testing.T) {
		stored := Settings{
			PontoCategories: []string{"Boiadeiro"},
		}

		got := stored.WithDefaults()

		assert.Contains(t, got.PontoCategories, "Boiadeiro")
		assert.Contains(t, got.PontoCategories, "Caboclo")
		// user-added entries come first
		assert.Equal(t, "Boiadeiro", got.PontoCategories[0])
	})

	t.Run("does not override stored scalar fields", func(t *testing.T) {
		stored := Settings{
			Pricing: Pricing{
				MediumMonthly:    decimal.NewFromInt(80),
				AssistantMonthly: decimal.NewFromInt(45),
			},
		}

		got := stored.WithDefaults()

		assert.True(t, got.Pricing.MediumMonthly.Equal(decimal.NewFromInt(80)))
	})

	t.Run("is idempotent", func(t *testing.T) {
		stored := Settings{
			PontoCategories: []string{"Boiadeiro", "Caboclo"},
			EventTypes:      []string{"gira"},
		}

		once := stored.WithDefaults()
		twice := once.WithDefaults()

		assert.Equal(t, once, twice)
	})

	t.Run("union drops duplicates", func(t *testing.T) {
		stored := Settings{
			ErvaCategories: []string{"Banho", "Banho", "Arruda"},
		}

		got := stored.WithDefaults()

		count := 0
		for _, c := range got.ErvaCategories {
			if c == "Banho" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestGlobal_WithDefaults(t *testing.T) {
	got := Global{}.WithDefaults()
	assert.Equal(t, "Terreiro Cloud", got.SystemName)

	kept := Global{
		SystemName: "Axé Cloud",
		License:    License{Key: "AXE-2024-0001", Licensee: "Federação"},
	}.WithDefaults()
	assert.Equal(t, "Axé Cloud", kept.SystemName)
	assert.Equal(t, "AXE-2024-0001", kept.License.Key)
}

func TestDefault(t *testing.T) {
	def := Default()

	require.NotEmpty(t, def.Permissions["admin"])
	assert.Contains(t, def.Roles, "admin")
	assert.True(t, def.WithDefaults().Pricing.MediumMonthly.Equal(def.Pricing.MediumMonthly))
}
