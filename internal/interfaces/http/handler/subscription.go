package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appplatform "github.com/fieldworks/backend/internal/application/platform"
	"github.com/fieldworks/backend/internal/infrastructure/payment"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// webhookSignatureHeader carries the provider's HMAC over the raw body.
const webhookSignatureHeader = "X-Payment-Signature"

// SubscriptionHandler serves plan checkout, the tenant's subscription state,
// and the payment provider's webhook.
type SubscriptionHandler struct {
	BaseHandler
	subscriptions *appplatform.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *appplatform.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	// webhook authenticates by signature, not bearer token
	public.POST("/webhooks/payment", h.Webhook)

	g := authed.Group("/subscription", middleware.RequireOwner())
	g.GET("", h.Get)
	g.POST("/checkout", h.StartCheckout)
	g.POST("/cancel", h.Cancel)

	authed.GET("/platform/subscriptions", middleware.RequirePlatformAdmin(), h.List)
}

// Get returns the tenant's subscription.
//
//	@Summary	Own subscription
//	@Tags		subscriptions
//	@Security	BearerAuth
//	@Router		/subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	resp, err := h.subscriptions.GetForTenant(c.Request.Context(), h.tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StartCheckout opens a provider checkout session for a paid plan.
//
//	@Summary	Start plan checkout
//	@Tags		subscriptions
//	@Security	BearerAuth
//	@Router		/subscription/checkout [post]
func (h *SubscriptionHandler) StartCheckout(c *gin.Context) {
	var req appplatform.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.subscriptions.StartCheckout(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel ends the subscription at the provider and locally.
//
//	@Summary	Cancel subscription
//	@Tags		subscriptions
//	@Security	BearerAuth
//	@Router		/subscription/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	resp, err := h.subscriptions.Cancel(c.Request.Context(), h.tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List pages all subscriptions for the platform operator.
//
//	@Summary	List subscriptions
//	@Tags		platform
//	@Security	BearerAuth
//	@Router		/platform/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	var filter appplatform.SubscriptionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.subscriptions.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Webhook ingests signed payment events from the provider.
//
//	@Summary	Payment webhook
//	@Tags		subscriptions
//	@Accept		json
//	@Param		X-Payment-Signature	header	string	true	"hex HMAC-SHA256 of the body"
//	@Success	200
//	@Router		/webhooks/payment [post]
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	signature := c.GetHeader(webhookSignatureHeader)
	if signature == "" {
		h.Unauthorized(c, "missing signature")
		return
	}
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "unreadable body")
		return
	}
	if err := h.subscriptions.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.Unauthorized(c, "invalid signature")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
