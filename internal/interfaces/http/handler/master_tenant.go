package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	identityapp "github.com/terreiro/backend/internal/application/identity"
	"github.com/terreiro/backend/internal/domain/identity"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// MasterTenantHandler handles the developer console's tenant fleet
type MasterTenantHandler struct {
	BaseHandler
	provisioning *identityapp.ProvisioningService
	lifecycle    *identityapp.LifecycleService
	payments     *identityapp.PaymentService
	autoblock    *identityapp.AutoblockService
}

// NewMasterTenantHandler creates a new MasterTenantHandler
func NewMasterTenantHandler(
	provisioning *identityapp.ProvisioningService,
	lifecycle *identityapp.LifecycleService,
	payments *identityapp.PaymentService,
	autoblock *identityapp.AutoblockService,
) *MasterTenantHandler {
	return &MasterTenantHandler{
		provisioning: provisioning,
		lifecycle:    lifecycle,
		payments:     payments,
		autoblock:    autoblock,
	}
}

// ChangePlanRequest names the plan a tenant moves to
type ChangePlanRequest struct {
	PlanName string `json:"plan_name" validate:"required"`
}

// SetModulesRequest overrides a tenant's enabled modules
type SetModulesRequest struct {
	Modules []string `json:"modules" validate:"required"`
}

// RecordPaymentRequest marks one month of a tenant's payment map
type RecordPaymentRequest struct {
	MonthRef string                 `json:"month_ref" validate:"required"`
	Status   identity.PaymentStatus `json:"status" validate:"required"`
}

// DeleteTenantRequest re-confirms the master operator's password
type DeleteTenantRequest struct {
	MasterPassword string `json:"master_password" validate:"required"`
}

// TransitionRequest re-confirms the master operator's password before a
// manual status change
type TransitionRequest struct {
	MasterPassword string `json:"master_password" validate:"required"`
}

// List returns the tenant fleet, paginated
func (h *MasterTenantHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	result, err := h.provisioning.ListTenants(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Stats summarizes the fleet by status
func (h *MasterTenantHandler) Stats(c *gin.Context) {
	stats, err := h.provisioning.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Get returns one tenant
func (h *MasterTenantHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.provisioning.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Create provisions a new tenant with its admin user and seed data
func (h *MasterTenantHandler) Create(c *gin.Context) {
	var input identityapp.CreateTenantInput
	if !h.bindJSON(c, &input) {
		return
	}

	tenant, err := h.provisioning.CreateTenant(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// Update edits a tenant's display and contact fields
func (h *MasterTenantHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var input identityapp.UpdateTenantInput
	if !h.bindJSON(c, &input) {
		return
	}

	tenant, err := h.provisioning.UpdateTenant(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// ChangePlan moves a tenant to another plan
func (h *MasterTenantHandler) ChangePlan(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ChangePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.provisioning.ChangePlan(c.Request.Context(), id, req.PlanName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// SetModules overrides a tenant's enabled-module list
func (h *MasterTenantHandler) SetModules(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req SetModulesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.provisioning.SetEnabledModules(c.Request.Context(), id, req.Modules)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Freeze suspends a tenant temporarily
func (h *MasterTenantHandler) Freeze(c *gin.Context) {
	h.transition(c, h.lifecycle.Freeze)
}

// Unfreeze reactivates a frozen tenant
func (h *MasterTenantHandler) Unfreeze(c *gin.Context) {
	h.transition(c, h.lifecycle.Unfreeze)
}

// Block locks a tenant out for non-payment
func (h *MasterTenantHandler) Block(c *gin.Context) {
	h.transition(c, h.lifecycle.Block)
}

// Unblock reactivates a blocked tenant
func (h *MasterTenantHandler) Unblock(c *gin.Context) {
	h.transition(c, h.lifecycle.Unblock)
}

func (h *MasterTenantHandler) transition(c *gin.Context, op func(ctx context.Context, input identityapp.TransitionInput) (*identityapp.TenantView, error)) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	masterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TransitionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := op(c.Request.Context(), identityapp.TransitionInput{
		TenantID:       id,
		MasterUserID:   masterID,
		MasterPassword: req.MasterPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// RecordPayment marks one month in the tenant's payment map and extends
// the expiration when the month is paid
func (h *MasterTenantHandler) RecordPayment(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.payments.RecordPayment(c.Request.Context(), identityapp.RecordPaymentInput{
		TenantID: id,
		MonthRef: req.MonthRef,
		Status:   req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Delete destroys a tenant and everything it owns, local and remote.
// The operator's password is re-confirmed first.
func (h *MasterTenantHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	masterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req DeleteTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err = h.lifecycle.Delete(c.Request.Context(), identityapp.DeleteTenantInput{
		TenantID:       id,
		MasterUserID:   masterID,
		MasterPassword: req.MasterPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Sweep runs the auto-block pass over active tenants immediately
func (h *MasterTenantHandler) Sweep(c *gin.Context) {
	blocked, err := h.autoblock.Sweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"blocked": blocked})
}

// RegisterRoutes registers master tenant routes
func (h *MasterTenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	{
		tenants.GET("", h.List)
		tenants.GET("/stats", h.Stats)
		tenants.POST("/sweep", h.Sweep)
		tenants.GET("/:id", h.Get)
		tenants.POST("", h.Create)
		tenants.PUT("/:id", h.Update)
		tenants.PUT("/:id/plan", h.ChangePlan)
		tenants.PUT("/:id/modules", h.SetModules)
		tenants.POST("/:id/freeze", h.Freeze)
		tenants.POST("/:id/unfreeze", h.Unfreeze)
		tenants.POST("/:id/block", h.Block)
		tenants.POST("/:id/unblock", h.Unblock)
		tenants.POST("/:id/payments", h.RecordPayment)
		tenants.DELETE("/:id", h.Delete)
	}
}
