package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// TenantKey is the gin context key holding the resolved tenant
const TenantKey = "tenant"

// TenantGate resolves the authenticated tenant on every request and
// enforces its lifecycle status and module entitlements. Master sessions
// pass through untouched.
type TenantGate struct {
	tenants identity.TenantRepository
	plans   identity.PlanRepository
	logger  *zap.Logger
}

// NewTenantGate creates a tenant gate backed by the given repositories
func NewTenantGate(tenants identity.TenantRepository, plans identity.PlanRepository, logger *zap.Logger) *TenantGate {
	return &TenantGate{tenants: tenants, plans: plans, logger: logger}
}

// Enforce loads the tenant from the JWT claims and rejects requests for
// frozen or blocked tenants. The resolved tenant is stored in the context.
func (g *TenantGate) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsMaster(c) {
			c.Next()
			return
		}

		tenantIDStr := GetJWTTenantID(c)
		if tenantIDStr == "" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Tenant context required"))
			return
		}
		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Invalid tenant context"))
			return
		}

		tenant, err := g.tenants.FindByID(c.Request.Context(), tenantID)
		if err != nil {
			g.logger.Warn("Failed to resolve tenant for request",
				zap.String("tenant_id", tenantIDStr),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_NOT_FOUND", "Tenant no longer exists"))
			return
		}

		switch tenant.Status {
		case identity.TenantStatusBlocked:
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_BLOCKED", "Subscription is blocked. Contact support to regularize payment"))
			return
		case identity.TenantStatusFrozen:
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_FROZEN", "Account is temporarily frozen"))
			return
		}

		c.Set(TenantKey, tenant)
		c.Next()
	}
}

// RequireModule rejects requests when the named module is not enabled for
// the tenant. The tenant's own module list overrides the plan's when set.
func (g *TenantGate) RequireModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsMaster(c) {
			c.Next()
			return
		}

		tenant := GetTenant(c)
		if tenant == nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Tenant context required"))
			return
		}

		modules := tenant.EnabledModules
		if len(modules) == 0 {
			plan, err := g.plans.FindByName(c.Request.Context(), tenant.PlanName)
			if err != nil {
				// A retired plan leaves the tenant without entitlements data.
				// Let the request through rather than locking the tenant out.
				g.logger.Warn("Plan lookup failed during module check",
					zap.String("tenant_id", tenant.ID.String()),
					zap.String("plan", tenant.PlanName),
					zap.Error(err))
				c.Next()
				return
			}
			modules = plan.Modules
		}

		for _, m := range modules {
			if m == module {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse("MODULE_DISABLED", "Module is not enabled for this plan"))
	}
}

// GetTenant retrieves the tenant resolved by Enforce, or nil
func GetTenant(c *gin.Context) *identity.Tenant {
	if value, exists := c.Get(TenantKey); exists {
		if tenant, ok := value.(*identity.Tenant); ok {
			return tenant
		}
	}
	return nil
}
