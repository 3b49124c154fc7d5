package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditapp "github.com/terreiro/backend/internal/application/audit"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// MasterAuditHandler serves the console's audit trail
type MasterAuditHandler struct {
	BaseHandler
	service *auditapp.QueryService
}

// NewMasterAuditHandler creates a new MasterAuditHandler
func NewMasterAuditHandler(service *auditapp.QueryService) *MasterAuditHandler {
	return &MasterAuditHandler{service: service}
}

// List returns audit entries, newest first. Supports category, severity
// and tenant_id filters.
func (h *MasterAuditHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	filters := map[string]interface{}{}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}
	if severity := c.Query("severity"); severity != "" {
		filters["severity"] = severity
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	if tenantIDStr := c.Query("tenant_id"); tenantIDStr != "" {
		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid tenant_id")
			return
		}
		result, err := h.service.ListForTenant(c.Request.Context(), tenantID, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ExportCSV streams the audit trail as a CSV download
func (h *MasterAuditHandler) ExportCSV(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	filters := map[string]interface{}{}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}
	if severity := c.Query("severity"); severity != "" {
		filters["severity"] = severity
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	payload, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "auditoria_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// RegisterRoutes registers audit routes
func (h *MasterAuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audit := rg.Group("/audit")
	{
		audit.GET("", h.List)
		audit.GET("/export", h.ExportCSV)
	}
}
