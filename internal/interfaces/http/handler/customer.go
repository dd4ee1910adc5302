package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/fieldworks/backend/internal/application/partner"
)

// CustomerHandler serves the customer book.
type CustomerHandler struct {
	BaseHandler
	customers *apppartner.CustomerService
}

func NewCustomerHandler(customers *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/customers")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/archive", h.Archive)
	g.POST("/:id/restore", h.Restore)
	g.DELETE("/:id", h.Delete)
}

// Create adds a customer.
//
//	@Summary	Create customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.customers.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages customers with search and status filters.
//
//	@Summary	List customers
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter apppartner.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.customers.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Get returns one customer.
//
//	@Summary	Get customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.customers.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits customer details.
//
//	@Summary	Update customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req apppartner.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.customers.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive hides a customer from active lists.
//
//	@Summary	Archive customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers/{id}/archive [post]
func (h *CustomerHandler) Archive(c *gin.Context) {
	h.customerAction(c, h.customers.Archive)
}

// Restore brings an archived customer back.
//
//	@Summary	Restore customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers/{id}/restore [post]
func (h *CustomerHandler) Restore(c *gin.Context) {
	h.customerAction(c, h.customers.Restore)
}

// Delete removes a customer with no documents or jobs.
//
//	@Summary	Delete customer
//	@Tags		customers
//	@Security	BearerAuth
//	@Router		/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CustomerHandler) customerAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*apppartner.CustomerResponse, error)) {
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
