package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/fieldworks/backend/internal/application/billing"
)

// QuoteHandler serves quote documents.
type QuoteHandler struct {
	BaseHandler
	quotes *appbilling.QuoteService
}

func NewQuoteHandler(quotes *appbilling.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

func (h *QuoteHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/quotes")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/counts", h.CountByStatus)
	g.GET("/by-number/:number", h.GetByNumber)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/items", h.AddItem)
	g.PUT("/:id/items/:item_id", h.UpdateItem)
	g.DELETE("/:id/items/:item_id", h.RemoveItem)
	g.POST("/:id/send", h.Send)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/reject", h.Reject)
	g.DELETE("/:id", h.Delete)

	authed.GET("/customers/:id/quotes", h.ListByCustomer)
}

type lineItemURI struct {
	ID     string `uri:"id" binding:"required,uuid"`
	ItemID string `uri:"item_id" binding:"required,uuid"`
}

// Create drafts a quote, reserving its document number.
//
//	@Summary	Create quote
//	@Tags		quotes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		billing.CreateQuoteRequest	true	"quote"
//	@Success	201		{object}	dto.Response{data=billing.QuoteResponse}
//	@Failure	422		{object}	dto.Response
//	@Router		/quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req appbilling.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.quotes.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages quotes with search and status filters.
//
//	@Summary	List quotes
//	@Tags		quotes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status		query		string	false	"status filter"
//	@Param		search		query		string	false	"match on number or customer"
//	@Param		page		query		int		false	"page"
//	@Param		page_size	query		int		false	"page size"
//	@Success	200			{object}	dto.Response{data=[]billing.QuoteListResponse}
//	@Router		/quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.quotes.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// ListByCustomer pages one customer's quotes.
//
//	@Summary	Quotes for a customer
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/customers/{id}/quotes [get]
func (h *QuoteHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.quotes.ListByCustomer(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// CountByStatus returns quote counts keyed by status.
//
//	@Summary	Quote counts by status
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/counts [get]
func (h *QuoteHandler) CountByStatus(c *gin.Context) {
	counts, err := h.quotes.CountByStatus(c.Request.Context(), h.tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Get returns one quote with its line items.
//
//	@Summary	Get quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.quotes.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber looks a quote up by its document number.
//
//	@Summary	Get quote by number
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/by-number/{number} [get]
func (h *QuoteHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "number is required")
		return
	}
	resp, err := h.quotes.GetByDocumentNumber(c.Request.Context(), h.tenantID(c), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a draft quote's header fields.
//
//	@Summary	Update quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appbilling.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.quotes.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem appends a line item to a draft quote.
//
//	@Summary	Add line item
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appbilling.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.quotes.AddItem(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem edits a line item on a draft quote.
//
//	@Summary	Update line item
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/items/{item_id} [put]
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	docID, itemID, ok := h.bindItemIDs(c)
	if !ok {
		return
	}
	var req appbilling.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.quotes.UpdateItem(c.Request.Context(), h.tenantID(c), docID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem deletes a line item from a draft quote.
//
//	@Summary	Remove line item
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/items/{item_id} [delete]
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	docID, itemID, ok := h.bindItemIDs(c)
	if !ok {
		return
	}
	resp, err := h.quotes.RemoveItem(c.Request.Context(), h.tenantID(c), docID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send marks the quote as presented to the customer.
//
//	@Summary	Send quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	h.quoteAction(c, h.quotes.Send)
}

// Accept records the customer's acceptance.
//
//	@Summary	Accept quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.quoteAction(c, h.quotes.Accept)
}

// Reject records the customer's rejection.
//
//	@Summary	Reject quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *gin.Context) {
	h.quoteAction(c, h.quotes.Reject)
}

// Delete removes a draft quote.
//
//	@Summary	Delete quote
//	@Tags		quotes
//	@Security	BearerAuth
//	@Router		/quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.quotes.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *QuoteHandler) quoteAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*appbilling.QuoteResponse, error)) {
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

// bindItemIDs parses the :id/:item_id pair used by line item routes.
func (h *BaseHandler) bindItemIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	var uri lineItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	docID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err := uuid.Parse(uri.ItemID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return docID, itemID, true
}
