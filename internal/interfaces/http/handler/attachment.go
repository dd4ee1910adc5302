package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/fieldworks/backend/internal/application/billing"
	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// AttachmentHandler serves file attachments on quotes and invoices. Uploads
// and downloads go straight to object storage via presigned URLs.
type AttachmentHandler struct {
	BaseHandler
	attachments *appbilling.AttachmentService
}

func NewAttachmentHandler(attachments *appbilling.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

func (h *AttachmentHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	authed.POST("/quotes/:id/attachments", h.initiate(billing.KindQuote))
	authed.GET("/quotes/:id/attachments", h.list(billing.KindQuote))
	authed.POST("/invoices/:id/attachments", h.initiate(billing.KindInvoice))
	authed.GET("/invoices/:id/attachments", h.list(billing.KindInvoice))

	g := authed.Group("/attachments")
	g.POST("/:id/confirm", h.Confirm)
	g.GET("/:id/download", h.Download)
	g.DELETE("/:id", h.Delete)
}

// initiate issues a presigned upload URL for a new attachment on a document.
//
//	@Summary	Start attachment upload
//	@Tags		attachments
//	@Security	BearerAuth
//	@Router		/quotes/{id}/attachments [post]
func (h *AttachmentHandler) initiate(kind billing.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID, ok := h.bindID(c)
		if !ok {
			return
		}
		var req appbilling.InitiateUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "invalid request body")
			return
		}
		var uploadedBy *uuid.UUID
		if userID := middleware.GetUserID(c); userID != uuid.Nil {
			uploadedBy = &userID
		}
		resp, err := h.attachments.InitiateUpload(c.Request.Context(), h.tenantID(c), kind, docID, uploadedBy, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, resp)
	}
}

// list returns a document's attachments.
//
//	@Summary	List attachments
//	@Tags		attachments
//	@Security	BearerAuth
//	@Router		/quotes/{id}/attachments [get]
func (h *AttachmentHandler) list(kind billing.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID, ok := h.bindID(c)
		if !ok {
			return
		}
		items, err := h.attachments.ListByDocument(c.Request.Context(), h.tenantID(c), kind, docID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, items)
	}
}

// Confirm marks an upload complete after the client has PUT the object.
//
//	@Summary	Confirm attachment upload
//	@Tags		attachments
//	@Security	BearerAuth
//	@Router		/attachments/{id}/confirm [post]
func (h *AttachmentHandler) Confirm(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.attachments.ConfirmUpload(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Download issues a short-lived presigned download URL.
//
//	@Summary	Download attachment
//	@Tags		attachments
//	@Security	BearerAuth
//	@Router		/attachments/{id}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.attachments.GetDownloadURL(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an attachment and its stored object.
//
//	@Summary	Delete attachment
//	@Tags		attachments
//	@Security	BearerAuth
//	@Router		/attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
