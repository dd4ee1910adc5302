package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appbilling "github.com/fieldworks/backend/internal/application/billing"
	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// NumberingHandler exposes per-tenant document numbering state.
type NumberingHandler struct {
	BaseHandler
	numbering *appbilling.NumberingService
}

func NewNumberingHandler(numbering *appbilling.NumberingService) *NumberingHandler {
	return &NumberingHandler{numbering: numbering}
}

func (h *NumberingHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/numbering")
	g.GET("/:kind", h.Get)
	g.PUT("/:kind/prefix", middleware.RequireOwner(), h.UpdatePrefix)
}

// Get returns the sequence state for a document kind.
//
//	@Summary	Numbering state
//	@Tags		numbering
//	@Security	BearerAuth
//	@Param		kind	path	string	true	"quote or invoice"
//	@Router		/numbering/{kind} [get]
func (h *NumberingHandler) Get(c *gin.Context) {
	kind, ok := h.bindKind(c)
	if !ok {
		return
	}
	resp, err := h.numbering.Get(c.Request.Context(), h.tenantID(c), kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePrefix changes the prefix for future numbers. Issued numbers keep
// the prefix they were minted with.
//
//	@Summary	Update numbering prefix
//	@Tags		numbering
//	@Security	BearerAuth
//	@Router		/numbering/{kind}/prefix [put]
func (h *NumberingHandler) UpdatePrefix(c *gin.Context) {
	kind, ok := h.bindKind(c)
	if !ok {
		return
	}
	var req appbilling.UpdatePrefixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.numbering.UpdatePrefix(c.Request.Context(), h.tenantID(c), kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *NumberingHandler) bindKind(c *gin.Context) (billing.DocumentKind, bool) {
	switch strings.ToLower(c.Param("kind")) {
	case "quote":
		return billing.KindQuote, true
	case "invoice":
		return billing.KindInvoice, true
	default:
		h.BadRequest(c, "kind must be quote or invoice")
		return "", false
	}
}
