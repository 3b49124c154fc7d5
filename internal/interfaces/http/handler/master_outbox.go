package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appsync "github.com/terreiro/backend/internal/application/sync"
)

// MasterOutboxHandler exposes the replication queue to the console
type MasterOutboxHandler struct {
	BaseHandler
	admin *appsync.QueueAdmin
}

// NewMasterOutboxHandler creates a new MasterOutboxHandler
func NewMasterOutboxHandler(admin *appsync.QueueAdmin) *MasterOutboxHandler {
	return &MasterOutboxHandler{admin: admin}
}

// Stats counts queue entries per status
func (h *MasterOutboxHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Dead lists entries that exhausted their retries
func (h *MasterOutboxHandler) Dead(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	entries, total, err := h.admin.DeadEntries(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// Retry requeues one dead entry
func (h *MasterOutboxHandler) Retry(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.admin.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAll requeues every dead entry
func (h *MasterOutboxHandler) RetryAll(c *gin.Context) {
	reset, err := h.admin.RetryAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reset": reset})
}

// Prune deletes sent entries older than the given number of days
func (h *MasterOutboxHandler) Prune(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		h.BadRequest(c, "Invalid retention days")
		return
	}

	deleted, err := h.admin.Prune(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}

// RegisterRoutes registers replication queue routes
func (h *MasterOutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	outbox := rg.Group("/outbox")
	{
		outbox.GET("/stats", h.Stats)
		outbox.GET("/dead", h.Dead)
		outbox.POST("/dead/retry", h.RetryAll)
		outbox.POST("/dead/:id/retry", h.Retry)
		outbox.DELETE("/sent", h.Prune)
	}
}
