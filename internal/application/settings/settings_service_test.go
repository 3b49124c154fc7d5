package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/settings"
	"github.com/terreiro/backend/internal/infrastructure/cache"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

func setupSettings(t *testing.T) (*Service, *persistence.GormSettingsRepository) {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	repo := persistence.NewGormSettingsRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())
	store := cache.NewMemoryStore(zap.NewNop())

	return NewService(repo, repo, store, enqueuer, zap.NewNop()), repo
}

func TestSettingsService_UnstoredTenantGetsDefaults(t *testing.T) {
	ctx := context.Background()
	service, _ := setupSettings(t)

	cfg, err := service.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Contains(t, cfg.Roles, "admin")
	assert.True(t, cfg.Pricing.MediumMonthly.Equal(decimal.NewFromInt(60)))
}

func TestSettingsService_StoredRecordPicksUpNewBuiltins(t *testing.T) {
	ctx := context.Background()
	service, repo := setupSettings(t)
	tenantID := uuid.New()

	// A record written before some built-in categories existed
	require.NoError(t, repo.Save(ctx, tenantID, settings.Settings{
		PontoCategories: []string{"Caboclo", "Malandro"},
	}))

	cfg, err := service.Get(ctx, tenantID)
	require.NoError(t, err)
	// Stored categories stay first; missing built-ins are unioned in
	assert.Equal(t, "Caboclo", cfg.PontoCategories[0])
	assert.Equal(t, "Malandro", cfg.PontoCategories[1])
	assert.Contains(t, cfg.PontoCategories, "Preto Velho")
	assert.NotEmpty(t, cfg.Permissions)
}

func TestSettingsService_SaveInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	service, _ := setupSettings(t)
	tenantID := uuid.New()

	first, err := service.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ErvaCategories)

	first.ErvaCategories = append(first.ErvaCategories, "Arruda")
	_, err = service.Save(ctx, tenantID, first)
	require.NoError(t, err)

	reloaded, err := service.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.ErvaCategories, "Arruda")
}

func TestSettingsService_GlobalRecordIsNotTenantScoped(t *testing.T) {
	ctx := context.Background()
	service, _ := setupSettings(t)

	// Nothing stored yet: built-in system name, empty license
	g, err := service.GetGlobal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Terreiro Cloud", g.SystemName)
	assert.Empty(t, g.License.Key)

	activeTenant := uuid.New()
	g.SystemName = "Axé Cloud"
	g.License = settings.License{
		Key:      "AXE-2024-0001",
		Licensee: "Federação de Umbanda",
		TenantID: &activeTenant,
	}
	_, err = service.SaveGlobal(ctx, g)
	require.NoError(t, err)

	// The record survives regardless of which tenant is being served
	reloaded, err := service.GetGlobal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Axé Cloud", reloaded.SystemName)
	assert.Equal(t, "AXE-2024-0001", reloaded.License.Key)
	require.NotNil(t, reloaded.License.TenantID)
	assert.Equal(t, activeTenant, *reloaded.License.TenantID)

	// Per-tenant settings reads do not shadow or clear it
	_, err = service.Get(ctx, uuid.New())
	require.NoError(t, err)
	reloaded, err = service.GetGlobal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Axé Cloud", reloaded.SystemName)
}
