// Package router assembles the gin engine: global middleware, the public
// surface, the tenant console behind the tenant gate and the master
// console behind the master claim.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/infrastructure/logger"
	"github.com/terreiro/backend/internal/interfaces/http/handler"
	"github.com/terreiro/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	Members   *handler.MemberHandler
	Inventory *handler.InventoryHandler
	Agenda    *handler.AgendaHandler
	Finance   *handler.FinanceHandler
	Settings  *handler.SettingsHandler
	Support   *handler.SupportHandler
	Backup    *handler.BackupHandler

	MasterTenants *handler.MasterTenantHandler
	MasterPlans   *handler.MasterPlanHandler
	MasterAudit   *handler.MasterAuditHandler
	MasterSupport *handler.MasterSupportHandler
	MasterOutbox  *handler.MasterOutboxHandler
}

// Config carries the router's dependencies
type Config struct {
	Logger   *zap.Logger
	JWT      middleware.JWTConfig
	CORS     middleware.CORSConfig
	Gate     *middleware.TenantGate
	Handlers Handlers
}

// New builds the gin engine with all routes mounted
func New(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.GinRecovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthWithConfig(cfg.JWT))

	h := cfg.Handlers
	h.Auth.RegisterRoutes(api)

	// Tenant console. Every route resolves the tenant and enforces its
	// lifecycle status; feature routes are additionally gated by module.
	tenant := api.Group("", cfg.Gate.Enforce())
	{
		h.Settings.RegisterRoutes(tenant)
		h.Support.RegisterRoutes(tenant)

		h.Members.RegisterRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleMembers)))
		h.Finance.RegisterRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleFinance)))
		h.Inventory.RegisterRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleInventory)))
		h.Inventory.RegisterCanteenRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleCanteen)))
		h.Agenda.RegisterEventRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleAgenda)))
		h.Agenda.RegisterCourseRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleCourses)))
		h.Backup.RegisterRoutes(tenant.Group("", cfg.Gate.RequireModule(identity.ModuleBackup)))
	}

	// Master console
	master := api.Group("/master", middleware.RequireMaster())
	{
		h.MasterTenants.RegisterRoutes(master)
		h.MasterPlans.RegisterRoutes(master)
		h.MasterAudit.RegisterRoutes(master)
		h.MasterSupport.RegisterRoutes(master)
		h.MasterOutbox.RegisterRoutes(master)
		h.Settings.RegisterMasterRoutes(master)
	}

	return engine
}
