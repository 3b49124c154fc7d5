package handler

import (
	"github.com/gin-gonic/gin"

	settingsapp "github.com/terreiro/backend/internal/application/settings"
	"github.com/terreiro/backend/internal/domain/settings"
)

// SettingsHandler handles per-tenant configuration endpoints
type SettingsHandler struct {
	BaseHandler
	service *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the tenant's settings with defaults applied
func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	cfg, err := h.service.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Save replaces the tenant's settings
func (h *SettingsHandler) Save(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var cfg settings.Settings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	saved, err := h.service.Save(c.Request.Context(), tenantID, cfg)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// GetGlobal returns the installation-wide record (license block and system
// name), shared by every tenant
func (h *SettingsHandler) GetGlobal(c *gin.Context) {
	g, err := h.service.GetGlobal(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, g)
}

// SaveGlobal replaces the installation-wide record
func (h *SettingsHandler) SaveGlobal(c *gin.Context) {
	var g settings.Global
	if err := c.ShouldBindJSON(&g); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	saved, err := h.service.SaveGlobal(c.Request.Context(), g)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/settings")
	{
		group.GET("", h.Get)
		group.PUT("", h.Save)
	}
}

// RegisterMasterRoutes registers the installation-wide settings routes on
// the master console
func (h *SettingsHandler) RegisterMasterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/settings")
	{
		group.GET("", h.GetGlobal)
		group.PUT("", h.SaveGlobal)
	}
}
