package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/fieldworks/backend/internal/application/identity"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// UserHandler manages the tenant's user accounts. Owner only.
type UserHandler struct {
	BaseHandler
	users *appidentity.UserService
}

func NewUserHandler(users *appidentity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/users", middleware.RequireOwner())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/activate", h.Activate)
	g.POST("/:id/deactivate", h.Deactivate)
	g.POST("/:id/unlock", h.Unlock)
	g.DELETE("/:id", h.Delete)
}

// Create adds a user to the tenant, subject to the subscription seat limit.
//
//	@Summary	Create user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.users.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages the tenant's users.
//
//	@Summary	List users
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.users.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Get returns one user.
//
//	@Summary	Get user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.users.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits display name or role.
//
//	@Summary	Update user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appidentity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.users.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate re-enables a deactivated user. Re-checks the seat limit.
//
//	@Summary	Activate user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.userAction(c, h.users.Activate)
}

// Deactivate disables a user and frees their seat.
//
//	@Summary	Deactivate user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.userAction(c, h.users.Deactivate)
}

// Unlock clears a login lockout.
//
//	@Summary	Unlock user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	h.userAction(c, h.users.Unlock)
}

// Delete removes a user account.
//
//	@Summary	Delete user
//	@Tags		users
//	@Security	BearerAuth
//	@Router		/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *UserHandler) userAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*appidentity.UserResponse, error)) {
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
