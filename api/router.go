package api

import (
	"net/http"

	"github.com/beka-birhanu/trapmaze/api/i"
	"github.com/gin-gonic/gin"
)

// Router manages the HTTP server and the controllers mounted on it.
type Router struct {
	addr        string
	baseURL     string
	controllers []i.Controller
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr        string // Address to listen on
	BaseURL     string // Base URL for API routes
	Controllers []i.Controller
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:        config.Addr,
		baseURL:     config.BaseURL,
		controllers: config.Controllers,
	}
}

// Handler builds the gin engine with every controller mounted under
// <baseURL>/v1.
func (r *Router) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	v1 := router.Group(r.baseURL).Group("/v1")
	for _, c := range r.controllers {
		c.Register(v1)
	}
	return router
}

// Run starts the HTTP server. It blocks until the server fails.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	return http.ListenAndServe(r.addr, r.Handler())
}
