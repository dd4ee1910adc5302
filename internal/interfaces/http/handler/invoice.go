package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/fieldworks/backend/internal/application/billing"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler serves invoice documents.
type InvoiceHandler struct {
	BaseHandler
	invoices *appbilling.InvoiceService
}

func NewInvoiceHandler(invoices *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/invoices")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/counts", h.CountByStatus)
	g.GET("/by-number/:number", h.GetByNumber)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/job/:job_id", h.AssignJob)
	g.POST("/:id/items", h.AddItem)
	g.PUT("/:id/items/:item_id", h.UpdateItem)
	g.DELETE("/:id/items/:item_id", h.RemoveItem)
	g.POST("/:id/send", h.Send)
	g.POST("/:id/paid", h.MarkPaid)
	g.POST("/:id/overdue", h.MarkOverdue)
	g.POST("/:id/cancel", h.Cancel)
	g.DELETE("/:id", h.Delete)

	authed.POST("/quotes/:id/invoice", h.CreateFromQuote)
	authed.GET("/customers/:id/invoices", h.ListByCustomer)
	authed.GET("/jobs/:id/invoices", h.ListByJob)

	// maintenance sweep across tenants
	authed.POST("/platform/invoices/sweep-overdue", middleware.RequirePlatformAdmin(), h.SweepOverdue)
}

// Create drafts an invoice, reserving its document number.
//
//	@Summary	Create invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req appbilling.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.invoices.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateFromQuote drafts an invoice by copying an accepted quote's items.
//
//	@Summary	Invoice an accepted quote
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/quotes/{id}/invoice [post]
func (h *InvoiceHandler) CreateFromQuote(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.invoices.CreateFromQuote(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages invoices with search and status filters.
//
//	@Summary	List invoices
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.invoices.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// ListByCustomer pages one customer's invoices.
//
//	@Summary	Invoices for a customer
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/customers/{id}/invoices [get]
func (h *InvoiceHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.invoices.ListByCustomer(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// ListByJob pages invoices linked to a job.
//
//	@Summary	Invoices for a job
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/jobs/{id}/invoices [get]
func (h *InvoiceHandler) ListByJob(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.invoices.ListByJob(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// CountByStatus returns invoice counts keyed by status.
//
//	@Summary	Invoice counts by status
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/counts [get]
func (h *InvoiceHandler) CountByStatus(c *gin.Context) {
	counts, err := h.invoices.CountByStatus(c.Request.Context(), h.tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Get returns one invoice with its line items.
//
//	@Summary	Get invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.invoices.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber looks an invoice up by its document number.
//
//	@Summary	Get invoice by number
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/by-number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "number is required")
		return
	}
	resp, err := h.invoices.GetByDocumentNumber(c.Request.Context(), h.tenantID(c), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a draft invoice's header fields.
//
//	@Summary	Update invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appbilling.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.invoices.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignJob links a draft invoice to a job.
//
//	@Summary	Link invoice to job
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/job/{job_id} [post]
func (h *InvoiceHandler) AssignJob(c *gin.Context) {
	var uri struct {
		ID    string `uri:"id" binding:"required,uuid"`
		JobID string `uri:"job_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	invoiceID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	jobID, err := uuid.Parse(uri.JobID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	resp, err := h.invoices.AssignJob(c.Request.Context(), h.tenantID(c), invoiceID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem appends a line item to a draft invoice.
//
//	@Summary	Add line item
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appbilling.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.invoices.AddItem(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem edits a line item on a draft invoice.
//
//	@Summary	Update line item
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/items/{item_id} [put]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	docID, itemID, ok := h.bindItemIDs(c)
	if !ok {
		return
	}
	var req appbilling.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.invoices.UpdateItem(c.Request.Context(), h.tenantID(c), docID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem deletes a line item from a draft invoice.
//
//	@Summary	Remove line item
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/items/{item_id} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	docID, itemID, ok := h.bindItemIDs(c)
	if !ok {
		return
	}
	resp, err := h.invoices.RemoveItem(c.Request.Context(), h.tenantID(c), docID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send issues the invoice, starting its payment terms.
//
//	@Summary	Send invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.invoiceAction(c, h.invoices.Send)
}

// MarkPaid settles the invoice.
//
//	@Summary	Mark invoice paid
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.invoiceAction(c, h.invoices.MarkPaid)
}

// MarkOverdue flags a sent invoice past its due date.
//
//	@Summary	Mark invoice overdue
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/overdue [post]
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	h.invoiceAction(c, h.invoices.MarkOverdue)
}

// Cancel voids an unpaid invoice with a reason.
//
//	@Summary	Cancel invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appbilling.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.invoices.Cancel(c.Request.Context(), h.tenantID(c), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft invoice.
//
//	@Summary	Delete invoice
//	@Tags		invoices
//	@Security	BearerAuth
//	@Router		/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SweepOverdue flags every sent invoice past due across all tenants.
//
//	@Summary	Sweep overdue invoices
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/invoices/sweep-overdue [post]
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	const sweepBatchLimit = 500
	flagged, err := h.invoices.SweepOverdue(c.Request.Context(), time.Now(), sweepBatchLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"flagged": flagged})
}

func (h *InvoiceHandler) invoiceAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*appbilling.InvoiceResponse, error)) {
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
