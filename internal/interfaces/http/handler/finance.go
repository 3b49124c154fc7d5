package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/terreiro/backend/internal/application/finance"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// FinanceHandler handles payment ledger endpoints
type FinanceHandler struct {
	BaseHandler
	service   *financeapp.LedgerService
	migration *financeapp.LegacyPaymentMigration
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(service *financeapp.LedgerService, migration *financeapp.LegacyPaymentMigration) *FinanceHandler {
	return &FinanceHandler{service: service, migration: migration}
}

// List returns the tenant's ledger rows, paginated
func (h *FinanceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByMonth returns ledger rows referencing a YYYY-MM month
func (h *FinanceHandler) ListByMonth(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	rows, err := h.service.ListByMonth(c.Request.Context(), tenantID, c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Summary aggregates a month's income, expenses and pending amounts
func (h *FinanceHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), tenantID, c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get returns a single ledger row
func (h *FinanceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Create adds a ledger row
func (h *FinanceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input financeapp.CreateTransactionInput
	if !h.bindJSON(c, &input) {
		return
	}

	tx, err := h.service.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Update edits a ledger row
func (h *FinanceHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var input financeapp.UpdateTransactionInput
	if !h.bindJSON(c, &input) {
		return
	}

	tx, err := h.service.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// MarkPaid settles a pending ledger row
func (h *FinanceHandler) MarkPaid(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.service.MarkPaid(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Delete removes a ledger row
func (h *FinanceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MigrateLegacyPayments synthesizes ledger rows from members' historical
// payment maps. Safe to call repeatedly; the first run is recorded.
func (h *FinanceHandler) MigrateLegacyPayments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	migrated, err := h.migration.Apply(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"migrated": migrated})
}

// RegisterRoutes registers ledger routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	{
		finance.GET("", h.List)
		finance.GET("/month/:month", h.ListByMonth)
		finance.GET("/month/:month/summary", h.Summary)
		finance.GET("/:id", h.Get)
		finance.POST("", h.Create)
		finance.PUT("/:id", h.Update)
		finance.POST("/:id/pay", h.MarkPaid)
		finance.DELETE("/:id", h.Delete)
		finance.POST("/migrate-legacy", h.MigrateLegacyPayments)
	}
}
