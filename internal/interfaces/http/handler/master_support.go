package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	supportapp "github.com/terreiro/backend/internal/application/support"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// MasterSupportHandler handles the console side of tickets and broadcasts
type MasterSupportHandler struct {
	BaseHandler
	tickets    *supportapp.TicketService
	broadcasts *supportapp.BroadcastService
}

// NewMasterSupportHandler creates a new MasterSupportHandler
func NewMasterSupportHandler(tickets *supportapp.TicketService, broadcasts *supportapp.BroadcastService) *MasterSupportHandler {
	return &MasterSupportHandler{tickets: tickets, broadcasts: broadcasts}
}

// ListTickets returns tickets across every tenant, paginated
func (h *MasterSupportHandler) ListTickets(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	result, err := h.tickets.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetTicket returns any tenant's ticket with its conversation
func (h *MasterSupportHandler) GetTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), uuid.Nil, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// TicketTranscript returns the plain-text export of a conversation
func (h *MasterSupportHandler) TicketTranscript(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	transcript, err := h.tickets.Transcript(c.Request.Context(), uuid.Nil, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.String(http.StatusOK, transcript)
}

// ReplyTicket appends a host message to a conversation
func (h *MasterSupportHandler) ReplyTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var input supportapp.ReplyInput
	if !h.bindJSON(c, &input) {
		return
	}

	ticket, err := h.tickets.ReplyAsHost(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// CloseTicket closes any tenant's conversation
func (h *MasterSupportHandler) CloseTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.Close(c.Request.Context(), uuid.Nil, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// CreateBroadcast publishes an announcement to all or selected tenants
func (h *MasterSupportHandler) CreateBroadcast(c *gin.Context) {
	var input supportapp.BroadcastInput
	if !h.bindJSON(c, &input) {
		return
	}

	broadcast, err := h.broadcasts.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, broadcast)
}

// ListBroadcasts returns every announcement
func (h *MasterSupportHandler) ListBroadcasts(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	broadcasts, err := h.broadcasts.ListAll(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, broadcasts)
}

// DeleteBroadcast removes an announcement
func (h *MasterSupportHandler) DeleteBroadcast(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid broadcast ID")
		return
	}

	if err := h.broadcasts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers master support routes
func (h *MasterSupportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	{
		tickets.GET("", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.GET("/:id/transcript", h.TicketTranscript)
		tickets.POST("/:id/reply", h.ReplyTicket)
		tickets.POST("/:id/close", h.CloseTicket)
	}

	broadcasts := rg.Group("/broadcasts")
	{
		broadcasts.GET("", h.ListBroadcasts)
		broadcasts.POST("", h.CreateBroadcast)
		broadcasts.DELETE("/:id", h.DeleteBroadcast)
	}
}
