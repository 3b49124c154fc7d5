package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
	"github.com/terreiro/backend/internal/infrastructure/storage"
)

type backupFixture struct {
	service    *Service
	memberRepo community.MemberRepository
	tenant     *identity.Tenant
}

func setupBackup(t *testing.T) *backupFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	memberRepo := persistence.NewGormMemberRepository(database.DB)

	plan := identity.DefaultPlans()[0]
	tenant, err := identity.NewTenant("CASA01", "Casa de Teste", plan, time.Now())
	require.NoError(t, err)
	tenant.ClearDomainEvents()
	require.NoError(t, tenantRepo.Save(ctx, tenant))

	service := NewService(Deps{
		TenantRepo:      tenantRepo,
		MemberRepo:      memberRepo,
		TransactionRepo: persistence.NewGormTransactionRepository(database.DB),
		ItemRepo:        persistence.NewGormItemRepository(database.DB),
		EventRepo:       persistence.NewGormEventRepository(database.DB),
		CourseRepo:      persistence.NewGormCourseRepository(database.DB),
		SettingsRepo:    persistence.NewGormSettingsRepository(database.DB),
		Objects:         storage.NewMemoryStorage(),
		Logger:          zap.NewNop(),
	})

	return &backupFixture{service: service, memberRepo: memberRepo, tenant: tenant}
}

func TestBackupService_TakeAndDownload(t *testing.T) {
	ctx := context.Background()
	f := setupBackup(t)

	member, err := community.NewMember(f.tenant.ID, "Maria da Silva", "maria@example.com", "")
	require.NoError(t, err)
	require.NoError(t, f.memberRepo.Save(ctx, member))

	key, err := f.service.Take(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Contains(t, key, "BACKUP_CASA01_")

	data, err := f.service.Download(ctx, f.tenant.ID, key)
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, 1, snapshot.FormatVersion)
	assert.Equal(t, f.tenant.ID, snapshot.TenantID)
	require.Len(t, snapshot.Members, 1)
	assert.Equal(t, "Maria da Silva", snapshot.Members[0].Name)
	assert.Contains(t, snapshot.Settings.Roles, "admin")
}

func TestBackupService_ListIsScopedToTenant(t *testing.T) {
	ctx := context.Background()
	f := setupBackup(t)

	key, err := f.service.Take(ctx, f.tenant.ID)
	require.NoError(t, err)

	backups, err := f.service.List(ctx, f.tenant.ID)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, key, backups[0].Key)

	// Another tenant cannot fetch this backup by key
	other, err := identity.NewTenant("CASA02", "Outra Casa", identity.DefaultPlans()[0], time.Now())
	require.NoError(t, err)
	_, err = f.service.Download(ctx, other.ID, key)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
