package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appworkforce "github.com/fieldworks/backend/internal/application/workforce"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// StaffHandler serves the staff roster.
type StaffHandler struct {
	BaseHandler
	staff *appworkforce.StaffService
}

func NewStaffHandler(staff *appworkforce.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/staff")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	// roster changes are owner-only
	g.POST("", middleware.RequireOwner(), h.Create)
	g.PUT("/:id", middleware.RequireOwner(), h.Update)
	g.POST("/:id/link-user/:user_id", middleware.RequireOwner(), h.LinkUser)
	g.POST("/:id/activate", middleware.RequireOwner(), h.Activate)
	g.POST("/:id/deactivate", middleware.RequireOwner(), h.Deactivate)
	g.DELETE("/:id", middleware.RequireOwner(), h.Delete)
}

// Create adds a staff member to the roster.
//
//	@Summary	Create staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req appworkforce.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.staff.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages the roster.
//
//	@Summary	List staff
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	var filter appworkforce.StaffListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.staff.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Get returns one staff member.
//
//	@Summary	Get staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.staff.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits staff details including hourly rate.
//
//	@Summary	Update staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appworkforce.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.staff.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LinkUser connects a staff member to a login account.
//
//	@Summary	Link staff to user
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id}/link-user/{user_id} [post]
func (h *StaffHandler) LinkUser(c *gin.Context) {
	var uri struct {
		ID     string `uri:"id" binding:"required,uuid"`
		UserID string `uri:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	staffID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	userID, err := uuid.Parse(uri.UserID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	resp, err := h.staff.LinkUser(c.Request.Context(), h.tenantID(c), staffID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate returns a staff member to the active roster.
//
//	@Summary	Activate staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id}/activate [post]
func (h *StaffHandler) Activate(c *gin.Context) {
	h.staffAction(c, h.staff.Activate)
}

// Deactivate removes a staff member from the active roster. Fails while a
// timer is running for them.
//
//	@Summary	Deactivate staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id}/deactivate [post]
func (h *StaffHandler) Deactivate(c *gin.Context) {
	h.staffAction(c, h.staff.Deactivate)
}

// Delete removes a staff member with no recorded time.
//
//	@Summary	Delete staff member
//	@Tags		staff
//	@Security	BearerAuth
//	@Router		/staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.staff.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *StaffHandler) staffAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*appworkforce.StaffResponse, error)) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
