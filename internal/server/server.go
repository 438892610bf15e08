// Package server wires the gin engine, middleware and routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskman/configs"
	"taskman/internal/handler"
	"taskman/internal/middleware"
)

// Server wraps the gin engine
type Server struct {
	engine     *gin.Engine
	config     configs.ServerConfig
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg configs.ServerConfig, h *handler.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.CORS())

	s := &Server{
		engine: engine,
		config: cfg,
		log:    log,
	}
	s.registerRoutes(h)
	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(h *handler.Handler) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API info document for clients poking at the root.
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Task Manager API",
			"version": "1.0",
			"endpoints": gin.H{
				"GET /api/tasks":        "List all tasks",
				"GET /api/tasks/:id":    "Get a task",
				"POST /api/tasks":       "Create a task",
				"PUT /api/tasks/:id":    "Update a task",
				"DELETE /api/tasks/:id": "Delete a task",
				"GET /api/stats":        "Task statistics",
			},
		})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.GET("/tasks/:id", h.GetTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)
		api.GET("/stats", h.GetStats)
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address(),
		Handler: s.engine,
	}
	s.log.Info("starting HTTP server", zap.String("addr", s.config.Address()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
