package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type failingPurger struct{ err error }

func (p *failingPurger) PurgeTenant(_ context.Context, _ uuid.UUID) error { return p.err }

type lifecycleFixture struct {
	service      *LifecycleService
	provisioning *ProvisioningService
	tenantRepo   identity.TenantRepository
	userRepo     identity.UserRepository
	memberRepo   community.MemberRepository
	remote       *failingPurger
	master       *identity.User
}

func setupLifecycle(t *testing.T, replicate bool) *lifecycleFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	planRepo := persistence.NewGormPlanRepository(database.DB)
	userRepo := persistence.NewGormUserRepository(database.DB)
	memberRepo := persistence.NewGormMemberRepository(database.DB)
	settingsRepo := persistence.NewGormSettingsRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, replicate, zap.NewNop())
	remote := &failingPurger{}

	provisioning := NewProvisioningService(
		tenantRepo, planRepo, userRepo, settingsRepo,
		nopPublisher{}, enqueuer, zap.NewNop(),
	)
	require.NoError(t, provisioning.SeedDefaults(context.Background()))

	service := NewLifecycleService(LifecycleDeps{
		TenantRepo:      tenantRepo,
		UserRepo:        userRepo,
		MemberRepo:      memberRepo,
		TransactionRepo: persistence.NewGormTransactionRepository(database.DB),
		ItemRepo:        persistence.NewGormItemRepository(database.DB),
		EventRepo:       persistence.NewGormEventRepository(database.DB),
		CourseRepo:      persistence.NewGormCourseRepository(database.DB),
		TicketRepo:      persistence.NewGormTicketRepository(database.DB),
		SettingsRepo:    settingsRepo,
		MigrationLedger: persistence.NewGormDataMigrationRepository(database.DB),
		Remote:          remote,
		EventBus:        nopPublisher{},
		Enqueuer:        enqueuer,
		Logger:          zap.NewNop(),
	})

	master, err := identity.NewMasterUser("developer", "console-segredo")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(context.Background(), master))

	return &lifecycleFixture{
		service:      service,
		provisioning: provisioning,
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		memberRepo:   memberRepo,
		remote:       remote,
		master:       master,
	}
}

func provisionTenant(t *testing.T, f *lifecycleFixture, code string) *TenantView {
	t.Helper()
	view, err := f.provisioning.CreateTenant(context.Background(), CreateTenantInput{
		Code:          code,
		Name:          "Casa " + code,
		PlanName:      "Básico",
		AdminUsername: "admin-" + code,
		AdminPassword: "segredo-forte",
	})
	require.NoError(t, err)
	return view
}

func (f *lifecycleFixture) transitionInput(tenantID uuid.UUID, password string) TransitionInput {
	return TransitionInput{
		TenantID:       tenantID,
		MasterUserID:   f.master.ID,
		MasterPassword: password,
	}
}

func TestLifecycleService_FreezeAndUnfreeze(t *testing.T) {
	ctx := context.Background()
	f := setupLifecycle(t, false)
	tenant := provisionTenant(t, f, "CASA01")

	view, err := f.service.Freeze(ctx, f.transitionInput(tenant.ID, "console-segredo"))
	require.NoError(t, err)
	assert.Equal(t, identity.TenantStatusFrozen, view.Status)

	view, err = f.service.Unfreeze(ctx, f.transitionInput(tenant.ID, "console-segredo"))
	require.NoError(t, err)
	assert.Equal(t, identity.TenantStatusActive, view.Status)
}

func TestLifecycleService_TransitionsRequireMasterPassword(t *testing.T) {
	ctx := context.Background()
	f := setupLifecycle(t, false)
	tenant := provisionTenant(t, f, "CASA01")

	_, err := f.service.Freeze(ctx, f.transitionInput(tenant.ID, "senha-errada"))
	assert.ErrorIs(t, err, shared.ErrPasswordMismatch)

	_, err = f.service.Block(ctx, f.transitionInput(tenant.ID, "senha-errada"))
	assert.ErrorIs(t, err, shared.ErrPasswordMismatch)

	// Nothing moved
	stored, err := f.tenantRepo.FindByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.TenantStatusActive, stored.Status)

	// A tenant-level user cannot drive transitions even with its own password
	admin, err := f.userRepo.FindByUsername(ctx, &tenant.ID, "admin-CASA01")
	require.NoError(t, err)
	_, err = f.service.Block(ctx, TransitionInput{
		TenantID:       tenant.ID,
		MasterUserID:   admin.ID,
		MasterPassword: "segredo-forte",
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestLifecycleService_DeleteRequiresMasterPassword(t *testing.T) {
	ctx := context.Background()
	f := setupLifecycle(t, false)
	tenant := provisionTenant(t, f, "CASA01")

	err := f.service.Delete(ctx, DeleteTenantInput{
		TenantID:       tenant.ID,
		MasterUserID:   f.master.ID,
		MasterPassword: "senha-errada",
	})
	assert.ErrorIs(t, err, shared.ErrPasswordMismatch)

	// Tenant is untouched
	_, err = f.tenantRepo.FindByID(ctx, tenant.ID)
	require.NoError(t, err)
}

func TestLifecycleService_DeleteRemovesAllTenantData(t *testing.T) {
	ctx := context.Background()
	f := setupLifecycle(t, false)
	tenant := provisionTenant(t, f, "CASA01")

	member, err := community.NewMember(tenant.ID, "Maria da Silva", "", "")
	require.NoError(t, err)
	require.NoError(t, f.memberRepo.Save(ctx, member))

	require.NoError(t, f.service.Delete(ctx, DeleteTenantInput{
		TenantID:       tenant.ID,
		MasterUserID:   f.master.ID,
		MasterPassword: "console-segredo",
	}))

	_, err = f.tenantRepo.FindByID(ctx, tenant.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.memberRepo.FindByID(ctx, tenant.ID, member.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// The tenant admin account is gone too
	_, err = f.userRepo.FindByUsername(ctx, &tenant.ID, "admin-CASA01")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLifecycleService_DeleteAbortsWhenRemotePurgeFails(t *testing.T) {
	ctx := context.Background()
	f := setupLifecycle(t, true)
	tenant := provisionTenant(t, f, "CASA01")
	f.remote.err = errors.New("remote unavailable")

	err := f.service.Delete(ctx, DeleteTenantInput{
		TenantID:       tenant.ID,
		MasterUserID:   f.master.ID,
		MasterPassword: "console-segredo",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REMOTE_PURGE_FAILED", domainErr.Code)

	// Local data survives for a retry
	_, err = f.tenantRepo.FindByID(ctx, tenant.ID)
	require.NoError(t, err)
}
