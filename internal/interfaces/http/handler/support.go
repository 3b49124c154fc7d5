package handler

import (
	"github.com/gin-gonic/gin"

	supportapp "github.com/terreiro/backend/internal/application/support"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// SupportHandler handles the tenant side of tickets and broadcasts
type SupportHandler struct {
	BaseHandler
	tickets    *supportapp.TicketService
	broadcasts *supportapp.BroadcastService
}

// NewSupportHandler creates a new SupportHandler
func NewSupportHandler(tickets *supportapp.TicketService, broadcasts *supportapp.BroadcastService) *SupportHandler {
	return &SupportHandler{tickets: tickets, broadcasts: broadcasts}
}

// OpenTicket opens a support conversation
func (h *SupportHandler) OpenTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input supportapp.OpenTicketInput
	if !h.bindJSON(c, &input) {
		return
	}

	ticket, err := h.tickets.Open(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// ListTickets returns the tenant's tickets
func (h *SupportHandler) ListTickets(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	tickets, err := h.tickets.ListForTenant(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// GetTicket returns one ticket with its conversation
func (h *SupportHandler) GetTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// ReplyTicket appends a tenant message to the conversation
func (h *SupportHandler) ReplyTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var input supportapp.ReplyInput
	if !h.bindJSON(c, &input) {
		return
	}

	ticket, err := h.tickets.Reply(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// CloseTicket closes the conversation
func (h *SupportHandler) CloseTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.Close(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// ListBroadcasts returns announcements visible to the tenant with their
// read state
func (h *SupportHandler) ListBroadcasts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	views, err := h.broadcasts.ListForTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// MarkBroadcastRead records that the tenant saw an announcement
func (h *SupportHandler) MarkBroadcastRead(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid broadcast ID")
		return
	}

	if err := h.broadcasts.MarkRead(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers tenant support routes
func (h *SupportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	{
		tickets.GET("", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.POST("", h.OpenTicket)
		tickets.POST("/:id/reply", h.ReplyTicket)
		tickets.POST("/:id/close", h.CloseTicket)
	}

	broadcasts := rg.Group("/broadcasts")
	{
		broadcasts.GET("", h.ListBroadcasts)
		broadcasts.POST("/:id/read", h.MarkBroadcastRead)
	}
}
