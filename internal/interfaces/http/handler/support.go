package handler

import (
	"github.com/gin-gonic/gin"

	appplatform "github.com/fieldworks/backend/internal/application/platform"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// SupportHandler serves the tenant-to-operator support chat.
type SupportHandler struct {
	BaseHandler
	support *appplatform.SupportService
}

func NewSupportHandler(support *appplatform.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

func (h *SupportHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/support/threads")
	g.POST("", h.OpenThread)
	g.GET("", h.ListOwn)
	g.GET("/:id", h.GetOwn)
	g.POST("/:id/messages", h.Reply)
	g.POST("/:id/close", h.CloseOwn)

	admin := authed.Group("/platform/support/threads", middleware.RequirePlatformAdmin())
	admin.GET("", h.ListAll)
	admin.GET("/:id", h.Get)
	admin.POST("/:id/messages", h.PlatformReply)
	admin.POST("/:id/close", h.Close)
}

// OpenThread starts a support thread with an opening message.
//
//	@Summary	Open support thread
//	@Tags		support
//	@Security	BearerAuth
//	@Router		/support/threads [post]
func (h *SupportHandler) OpenThread(c *gin.Context) {
	var req appplatform.OpenThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.support.OpenThread(c.Request.Context(), h.tenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListOwn pages the tenant's threads.
//
//	@Summary	List own threads
//	@Tags		support
//	@Security	BearerAuth
//	@Router		/support/threads [get]
func (h *SupportHandler) ListOwn(c *gin.Context) {
	var filter appplatform.ThreadListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.support.ListForTenant(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// GetOwn returns one of the tenant's threads with messages.
//
//	@Summary	Get own thread
//	@Tags		support
//	@Security	BearerAuth
//	@Router		/support/threads/{id} [get]
func (h *SupportHandler) GetOwn(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.support.GetForTenant(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reply appends a tenant message. Replying to a closed thread reopens it.
//
//	@Summary	Reply to thread
//	@Tags		support
//	@Security	BearerAuth
//	@Router		/support/threads/{id}/messages [post]
func (h *SupportHandler) Reply(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appplatform.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.support.TenantReply(c.Request.Context(), h.tenantID(c), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CloseOwn closes one of the tenant's threads.
//
//	@Summary	Close own thread
//	@Tags		support
//	@Security	BearerAuth
//	@Router		/support/threads/{id}/close [post]
func (h *SupportHandler) CloseOwn(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.support.CloseForTenant(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAll pages every tenant's threads for the operator.
//
//	@Summary	List all threads
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/support/threads [get]
func (h *SupportHandler) ListAll(c *gin.Context) {
	var filter appplatform.ThreadListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.support.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Get returns any thread for the operator.
//
//	@Summary	Get thread
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/support/threads/{id} [get]
func (h *SupportHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.support.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PlatformReply appends an operator message. Closed threads reject it.
//
//	@Summary	Operator reply
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/support/threads/{id}/messages [post]
func (h *SupportHandler) PlatformReply(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appplatform.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.support.PlatformReply(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close closes any thread for the operator.
//
//	@Summary	Close thread
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/support/threads/{id}/close [post]
func (h *SupportHandler) Close(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.support.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
