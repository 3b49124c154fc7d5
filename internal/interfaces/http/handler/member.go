package handler

import (
	"github.com/gin-gonic/gin"

	communityapp "github.com/terreiro/backend/internal/application/community"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// MemberHandler handles member roster endpoints
type MemberHandler struct {
	BaseHandler
	service *communityapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service *communityapp.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// AwardMedalRequest carries a medal to pin on a member
type AwardMedalRequest struct {
	Medal string `json:"medal" validate:"required"`
}

// List returns the tenant's members, paginated
func (h *MemberHandler) List(c *gin.Context) {
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

// Get returns a single member
func (h *MemberHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Create registers a new member
func (h *MemberHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input communityapp.CreateMemberInput
	if !h.bindJSON(c, &input) {
		return
	}

	member, err := h.service.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// Update edits a member's details
func (h *MemberHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	var input communityapp.UpdateMemberInput
	if !h.bindJSON(c, &input) {
		return
	}

	member, err := h.service.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// AwardMedal pins a medal on a member
func (h *MemberHandler) AwardMedal(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	var req AwardMedalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.service.AwardMedal(c.Request.Context(), tenantID, id, req.Medal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Deactivate marks a member as inactive without freeing a plan seat
func (h *MemberHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.service.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Delete removes a member permanently
func (h *MemberHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers member roster routes
func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	{
		members.GET("", h.List)
		members.GET("/:id", h.Get)
		members.POST("", h.Create)
		members.PUT("/:id", h.Update)
		members.POST("/:id/medals", h.AwardMedal)
		members.POST("/:id/deactivate", h.Deactivate)
		members.DELETE("/:id", h.Delete)
	}
}
