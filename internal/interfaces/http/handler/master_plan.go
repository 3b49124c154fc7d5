package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/terreiro/backend/internal/application/identity"
)

// MasterPlanHandler handles subscription plan management
type MasterPlanHandler struct {
	BaseHandler
	provisioning *identityapp.ProvisioningService
}

// NewMasterPlanHandler creates a new MasterPlanHandler
func NewMasterPlanHandler(provisioning *identityapp.ProvisioningService) *MasterPlanHandler {
	return &MasterPlanHandler{provisioning: provisioning}
}

// List returns all plans
func (h *MasterPlanHandler) List(c *gin.Context) {
	plans, err := h.provisioning.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// Save creates or updates a plan by name
func (h *MasterPlanHandler) Save(c *gin.Context) {
	var input identityapp.PlanInput
	if !h.bindJSON(c, &input) {
		return
	}

	plan, err := h.provisioning.SavePlan(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Delete removes a plan no tenant is subscribed to
func (h *MasterPlanHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		h.BadRequest(c, "Plan name required")
		return
	}

	if err := h.provisioning.DeletePlan(c.Request.Context(), name); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers plan routes
func (h *MasterPlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	{
		plans.GET("", h.List)
		plans.POST("", h.Save)
		plans.DELETE("/:name", h.Delete)
	}
}
