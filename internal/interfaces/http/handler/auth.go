package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/fieldworks/backend/internal/application/identity"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves login, logout and token introspection.
type AuthHandler struct {
	BaseHandler
	auth  *appidentity.AuthService
	users *appidentity.UserService
}

func NewAuthHandler(auth *appidentity.AuthService, users *appidentity.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/auth/logout-all", h.LogoutAll)
	authed.GET("/auth/me", h.Me)
	authed.PUT("/auth/password", h.ChangePassword)
}

// Login exchanges credentials for an access token.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		identity.LoginRequest	true	"credentials"
//	@Success	200		{object}	dto.Response{data=identity.LoginResponse}
//	@Failure	401		{object}	dto.Response
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout revokes the presented access token.
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	204
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LogoutAll revokes every outstanding token for the caller.
//
//	@Summary	Log out everywhere
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	204
//	@Router		/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.auth.LogoutAll(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated user's profile.
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.Response{data=identity.UserResponse}
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.users.GetByID(c.Request.Context(), h.tenantID(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword rotates the caller's own password.
//
//	@Summary	Change own password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body	identity.ChangePasswordRequest	true	"passwords"
//	@Success	204
//	@Router		/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req appidentity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), h.tenantID(c), middleware.GetUserID(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
