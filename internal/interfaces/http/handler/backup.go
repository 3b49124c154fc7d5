package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	backupapp "github.com/terreiro/backend/internal/application/backup"
)

// BackupHandler handles tenant snapshot endpoints
type BackupHandler struct {
	BaseHandler
	service *backupapp.Service
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(service *backupapp.Service) *BackupHandler {
	return &BackupHandler{service: service}
}

// DownloadRequest carries the object key of a stored snapshot
type DownloadRequest struct {
	Key string `form:"key" binding:"required"`
}

// Take snapshots every collection of the tenant into object storage
func (h *BackupHandler) Take(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	key, err := h.service.Take(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"key": key})
}

// List returns the tenant's stored snapshots
func (h *BackupHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	backups, err := h.service.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, backups)
}

// Download streams a snapshot back to the tenant
func (h *BackupHandler) Download(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req DownloadRequest
	if !h.bindQuery(c, &req) {
		return
	}

	payload, err := h.service.Download(c.Request.Context(), tenantID, req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// RegisterRoutes registers backup routes
func (h *BackupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backups := rg.Group("/backup")
	{
		backups.POST("", h.Take)
		backups.GET("", h.List)
		backups.GET("/download", h.Download)
	}
}
