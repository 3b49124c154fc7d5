package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	agendaapp "github.com/terreiro/backend/internal/application/agenda"
	"github.com/terreiro/backend/internal/interfaces/http/dto"
)

// AgendaHandler handles calendar event and course endpoints
type AgendaHandler struct {
	BaseHandler
	events  *agendaapp.EventService
	courses *agendaapp.CourseService
}

// NewAgendaHandler creates a new AgendaHandler
func NewAgendaHandler(events *agendaapp.EventService, courses *agendaapp.CourseService) *AgendaHandler {
	return &AgendaHandler{events: events, courses: courses}
}

// CalendarRequest bounds a calendar window query
type CalendarRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// EnrollRequest identifies the member joining a course
type EnrollRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

// ListEvents returns the tenant's calendar events
func (h *AgendaHandler) ListEvents(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	events, err := h.events.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// Calendar returns events inside a date window
func (h *AgendaHandler) Calendar(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req CalendarRequest
	if !h.bindQuery(c, &req) {
		return
	}

	events, err := h.events.Calendar(c.Request.Context(), tenantID, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// GetEvent returns a single event
func (h *AgendaHandler) GetEvent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.events.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// CreateEvent adds a calendar event
func (h *AgendaHandler) CreateEvent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input agendaapp.EventInput
	if !h.bindJSON(c, &input) {
		return
	}

	event, err := h.events.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// UpdateEvent edits a calendar event
func (h *AgendaHandler) UpdateEvent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	var input agendaapp.EventInput
	if !h.bindJSON(c, &input) {
		return
	}

	event, err := h.events.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// DeleteEvent removes a calendar event
func (h *AgendaHandler) DeleteEvent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.events.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCourses returns the tenant's courses
func (h *AgendaHandler) ListCourses(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	courses, err := h.courses.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, courses)
}

// GetCourse returns a single course
func (h *AgendaHandler) GetCourse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courses.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// CreateCourse adds a course
func (h *AgendaHandler) CreateCourse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var input agendaapp.CourseInput
	if !h.bindJSON(c, &input) {
		return
	}

	course, err := h.courses.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, course)
}

// UpdateCourse edits a course's descriptive fields
func (h *AgendaHandler) UpdateCourse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var input agendaapp.CourseInput
	if !h.bindJSON(c, &input) {
		return
	}

	course, err := h.courses.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// Enroll seats a member in a course
func (h *AgendaHandler) Enroll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Enroll(c.Request.Context(), tenantID, id, req.MemberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// Withdraw removes a member's enrollment
func (h *AgendaHandler) Withdraw(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Withdraw(c.Request.Context(), tenantID, id, req.MemberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// CloseCourse closes a course to further enrollment
func (h *AgendaHandler) CloseCourse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courses.Close(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// DeleteCourse removes a course
func (h *AgendaHandler) DeleteCourse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	if err := h.courses.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterEventRoutes registers calendar routes
func (h *AgendaHandler) RegisterEventRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/calendar", h.Calendar)
		events.GET("/:id", h.GetEvent)
		events.POST("", h.CreateEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}
}

// RegisterCourseRoutes registers course routes, gated separately from the
// calendar
func (h *AgendaHandler) RegisterCourseRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/:id", h.GetCourse)
		courses.POST("", h.CreateCourse)
		courses.PUT("/:id", h.UpdateCourse)
		courses.POST("/:id/enroll", h.Enroll)
		courses.POST("/:id/withdraw", h.Withdraw)
		courses.POST("/:id/close", h.CloseCourse)
		courses.DELETE("/:id", h.DeleteCourse)
	}
}
