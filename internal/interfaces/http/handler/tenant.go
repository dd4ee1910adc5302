package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/fieldworks/backend/internal/application/identity"
	"github.com/fieldworks/backend/internal/interfaces/http/dto"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// TenantHandler serves self-service registration, the tenant's own profile,
// and the platform operator's tenant administration.
type TenantHandler struct {
	BaseHandler
	tenants *appidentity.TenantService
}

func NewTenantHandler(tenants *appidentity.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func (h *TenantHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/tenants/register", h.Register)

	own := authed.Group("/tenant")
	own.GET("", h.GetOwn)
	own.PUT("", middleware.RequireOwner(), h.UpdateOwn)

	admin := authed.Group("/platform/tenants", middleware.RequirePlatformAdmin())
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.POST("/:id/suspend", h.Suspend)
	admin.POST("/:id/activate", h.Activate)
}

// Register creates a tenant with its owner account and a trial subscription.
//
//	@Summary	Register a tenant
//	@Tags		tenants
//	@Accept		json
//	@Produce	json
//	@Param		request	body		identity.RegisterTenantRequest	true	"registration"
//	@Success	201		{object}	dto.Response
//	@Failure	409		{object}	dto.Response
//	@Router		/tenants/register [post]
func (h *TenantHandler) Register(c *gin.Context) {
	var req appidentity.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.tenants.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetOwn returns the caller's tenant profile.
//
//	@Summary	Own tenant profile
//	@Tags		tenants
//	@Security	BearerAuth
//	@Router		/tenant [get]
func (h *TenantHandler) GetOwn(c *gin.Context) {
	resp, err := h.tenants.GetByID(c.Request.Context(), h.tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateOwn edits the caller's tenant profile. Owner only.
//
//	@Summary	Update own tenant
//	@Tags		tenants
//	@Security	BearerAuth
//	@Router		/tenant [put]
func (h *TenantHandler) UpdateOwn(c *gin.Context) {
	h.update(c, h.tenantID(c))
}

// List pages all tenants for the platform operator.
//
//	@Summary	List tenants
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var filter appidentity.TenantListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.tenants.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Get returns one tenant by id.
//
//	@Summary	Get tenant
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.tenants.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits any tenant. Platform operator only.
//
//	@Summary	Update tenant
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	h.update(c, id)
}

// Suspend blocks all of a tenant's users from logging in.
//
//	@Summary	Suspend tenant
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.tenants.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate lifts a suspension.
//
//	@Summary	Activate tenant
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.tenants.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TenantHandler) update(c *gin.Context, id uuid.UUID) {
	var req appidentity.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.tenants.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// listMeta applies the service layer's paging defaults so the meta block
// matches the rows actually returned.
func listMeta(page, pageSize int, total int64) dto.Meta {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return dto.NewMeta(page, pageSize, total)
}
