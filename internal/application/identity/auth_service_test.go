package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/auth"
	"github.com/terreiro/backend/internal/infrastructure/config"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, _ ...shared.DomainEvent) error { return nil }

type authFixture struct {
	service    *AuthService
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	blacklist  auth.TokenBlacklist
	jwt        *auth.JWTService
}

func setupAuth(t *testing.T) *authFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	userRepo := persistence.NewGormUserRepository(database.DB)
	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "terreiro-test",
	})
	blacklist := auth.NewMemoryTokenBlacklist()

	return &authFixture{
		service:    NewAuthService(userRepo, tenantRepo, jwtService, blacklist, zap.NewNop()),
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		blacklist:  blacklist,
		jwt:        jwtService,
	}
}

func seedTenant(t *testing.T, f *authFixture, code string) *identity.Tenant {
	t.Helper()
	plan := identity.DefaultPlans()[0]
	tenant, err := identity.NewTenant(code, "Casa de Teste", plan, time.Now())
	require.NoError(t, err)
	tenant.ClearDomainEvents()
	require.NoError(t, f.tenantRepo.Save(context.Background(), tenant))
	return tenant
}

func seedUser(t *testing.T, f *authFixture, tenant *identity.Tenant, username, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenant.ID, username, password, identity.UserRoleAdmin)
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Save(context.Background(), user))
	return user
}

func TestAuthService_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	result, err := f.service.Login(ctx, LoginInput{
		TenantCode: "casa01",
		Username:   "maria",
		Password:   "segredo-forte",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "maria", result.User.Username)
	assert.False(t, result.User.Master)
	require.NotNil(t, result.User.TenantID)
	assert.Equal(t, tenant.ID, *result.User.TenantID)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID.String(), claims.TenantID)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	_, err := f.service.Login(ctx, LoginInput{
		TenantCode: "CASA01",
		Username:   "maria",
		Password:   "errada",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_LockoutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	input := LoginInput{TenantCode: "CASA01", Username: "maria", Password: "errada"}
	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = f.service.Login(ctx, input)
	}

	var domainErr *shared.DomainError
	require.ErrorAs(t, lastErr, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)

	// Even the correct password is refused while locked
	_, err := f.service.Login(ctx, LoginInput{TenantCode: "CASA01", Username: "maria", Password: "segredo-forte"})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_BlockedTenantCannotLogin(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	require.NoError(t, tenant.Block())
	tenant.ClearDomainEvents()
	require.NoError(t, f.tenantRepo.Save(ctx, tenant))

	_, err := f.service.Login(ctx, LoginInput{TenantCode: "CASA01", Username: "maria", Password: "segredo-forte"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TENANT_BLOCKED", domainErr.Code)
}

func TestAuthService_MasterLoginWithoutTenant(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)

	master, err := identity.NewMasterUser("developer", "console-segredo")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Save(ctx, master))

	result, err := f.service.Login(ctx, LoginInput{Username: "developer", Password: "console-segredo"})
	require.NoError(t, err)
	assert.True(t, result.User.Master)
	assert.Nil(t, result.User.TenantID)
}

func TestAuthService_TenantUserCannotLoginAsMaster(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	// No tenant code means a master console login
	_, err := f.service.Login(ctx, LoginInput{Username: "maria", Password: "segredo-forte"})
	require.Error(t, err)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	seedUser(t, f, tenant, "maria", "segredo-forte")

	result, err := f.service.Login(ctx, LoginInput{TenantCode: "CASA01", Username: "maria", Password: "segredo-forte"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, LogoutInput{AccessToken: result.AccessToken}))

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	revoked, err := f.blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := setupAuth(t)
	tenant := seedTenant(t, f, "CASA01")
	user := seedUser(t, f, tenant, "maria", "segredo-forte")

	err := f.service.ChangePassword(ctx, ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "errada",
		NewPassword:     "novo-segredo",
	})
	require.Error(t, err)

	require.NoError(t, f.service.ChangePassword(ctx, ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "segredo-forte",
		NewPassword:     "novo-segredo",
	}))

	_, err = f.service.Login(ctx, LoginInput{TenantCode: "CASA01", Username: "maria", Password: "novo-segredo"})
	require.NoError(t, err)
}
