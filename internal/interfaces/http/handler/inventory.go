package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/terreiro/backend/internal/application/inventory"
	"github.com/terreiro/backend/internal/domain/inventory"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles stock and canteen endpoints
type InventoryHandler struct {
	BaseHandler
	service *inventoryapp.ItemService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *inventoryapp.ItemService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// QuantityRequest carries a stock adjustment amount
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// List returns the tenant's stocked items
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, err := h.service.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListBelowMinimum returns items at or under their minimum stock level
func (h *InventoryHandler) ListBelowMinimum(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	items, err := h.service.ListBelowMinimum(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get returns a single item
func (h *InventoryHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create adds a new stocked item
func (h *InventoryHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input inventoryapp.CreateItemInput
	if !h.bindJSON(c, &input) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update edits an item's descriptive fields
func (h *InventoryHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var input inventoryapp.UpdateItemInput
	if !h.bindJSON(c, &input) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Restock increases an item's quantity
func (h *InventoryHandler) Restock(c *gin.Context) {
	h.adjust(c, h.service.Restock)
}

// Consume decreases an item's quantity
func (h *InventoryHandler) Consume(c *gin.Context) {
	h.adjust(c, h.service.Consume)
}

func (h *InventoryHandler) adjust(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID, quantity int) (*inventory.Item, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req QuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := op(c.Request.Context(), tenantID, id, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RecordSale consumes stock for each line and writes one paid ledger row
func (h *InventoryHandler) RecordSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input inventoryapp.SaleInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.service.RecordSale(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Delete removes an item
func (h *InventoryHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers stock management routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/inventory")
	{
		items.GET("", h.List)
		items.GET("/below-minimum", h.ListBelowMinimum)
		items.GET("/:id", h.Get)
		items.POST("", h.Create)
		items.PUT("/:id", h.Update)
		items.POST("/:id/restock", h.Restock)
		items.POST("/:id/consume", h.Consume)
		items.DELETE("/:id", h.Delete)
	}
}

// RegisterCanteenRoutes registers point-of-sale routes, gated separately
// from general stock management
func (h *InventoryHandler) RegisterCanteenRoutes(rg *gin.RouterGroup) {
	canteen := rg.Group("/canteen")
	{
		canteen.POST("/sales", h.RecordSale)
	}
}
