package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type gateFixture struct {
	gate       *TenantGate
	tenantRepo identity.TenantRepository
	planRepo   identity.PlanRepository
}

func setupGate(t *testing.T) *gateFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tenantRepo := persistence.NewGormTenantRepository(database.DB)
	planRepo := persistence.NewGormPlanRepository(database.DB)
	return &gateFixture{
		gate:       NewTenantGate(tenantRepo, planRepo, zap.NewNop()),
		tenantRepo: tenantRepo,
		planRepo:   planRepo,
	}
}

func seedGateTenant(t *testing.T, f *gateFixture, plan *identity.Plan) *identity.Tenant {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.planRepo.Save(ctx, plan))

	tenant, err := identity.NewTenant("CASA01", "Casa de Teste", plan, time.Now())
	require.NoError(t, err)
	tenant.ClearDomainEvents()
	require.NoError(t, f.tenantRepo.Save(ctx, tenant))
	return tenant
}

func gateEngine(f *gateFixture, tenant *identity.Tenant, module string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, tenant.ID.String())
	})
	engine.Use(f.gate.Enforce())
	handlers := []gin.HandlerFunc{}
	if module != "" {
		handlers = append(handlers, f.gate.RequireModule(module))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/resource", handlers...)
	return engine
}

func TestTenantGate_ActiveTenantPasses(t *testing.T) {
	f := setupGate(t)
	tenant := seedGateTenant(t, f, identity.DefaultPlans()[0])
	engine := gateEngine(f, tenant, "")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTenantGate_FrozenTenantIsLockedOut(t *testing.T) {
	f := setupGate(t)
	tenant := seedGateTenant(t, f, identity.DefaultPlans()[0])
	require.NoError(t, tenant.Freeze())
	tenant.ClearDomainEvents()
	require.NoError(t, f.tenantRepo.Save(context.Background(), tenant))

	engine := gateEngine(f, tenant, "")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_FROZEN")
}

func TestTenantGate_BlockedTenantIsLockedOut(t *testing.T) {
	f := setupGate(t)
	tenant := seedGateTenant(t, f, identity.DefaultPlans()[0])
	require.NoError(t, tenant.Block())
	tenant.ClearDomainEvents()
	require.NoError(t, f.tenantRepo.Save(context.Background(), tenant))

	engine := gateEngine(f, tenant, "")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_BLOCKED")
}

func TestTenantGate_ModuleOutsidePlanIsDenied(t *testing.T) {
	f := setupGate(t)
	// A plan that only enables the members module
	plan := identity.DefaultPlans()[0]
	plan.Modules = []string{identity.ModuleMembers}
	tenant := seedGateTenant(t, f, plan)

	engine := gateEngine(f, tenant, identity.ModuleInventory)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "MODULE_DISABLED")
}

func TestTenantGate_TenantOverrideBeatsPlan(t *testing.T) {
	f := setupGate(t)
	plan := identity.DefaultPlans()[0]
	plan.Modules = []string{identity.ModuleMembers}
	tenant := seedGateTenant(t, f, plan)

	tenant.SetEnabledModules([]string{identity.ModuleMembers, identity.ModuleInventory})
	require.NoError(t, f.tenantRepo.Save(context.Background(), tenant))

	engine := gateEngine(f, tenant, identity.ModuleInventory)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
