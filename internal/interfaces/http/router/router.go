package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes. Public routes skip bearer
// authentication, authed routes sit behind the JWT middleware.
type RouteRegistrar interface {
	RegisterRoutes(public, authed *gin.RouterGroup)
}

// Router assembles the versioned API from handler registrars.
type Router struct {
	engine         *gin.Engine
	apiVersion     string
	authMiddleware []gin.HandlerFunc
	registrars     []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1").
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware guarding authed routes.
func WithAuthMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.authMiddleware = mw
	}
}

// NewRouter creates a Router on the given engine.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered handler under /api/<version>.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	authed := r.engine.Group("/api/"+r.apiVersion, r.authMiddleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api, authed)
	}
}
