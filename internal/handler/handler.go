// Package handler exposes the task store over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskman/internal/domain/models"
	"taskman/internal/usecase"
)

// Handler handles HTTP requests
type Handler struct {
	store           *usecase.Store
	defaultPriority models.Priority
	log             *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(store *usecase.Store, defaultPriority models.Priority, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:           store,
		defaultPriority: defaultPriority,
		log:             log,
	}
}

// ListTasks handles GET /api/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, toTaskResponses(h.store.Tasks()))
}

// GetTask handles GET /api/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	task := h.store.FindByID(id)
	if task == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Task not found"})
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required fields: title, description"})
		return
	}

	priority := h.defaultPriority
	if req.Priority != "" {
		priority = models.ParsePriority(req.Priority)
	}

	id := h.store.Add(req.Title, req.Description, priority)
	if req.DueDate > 0 {
		h.store.Update(id, func(t *models.Task) {
			t.DueDate = req.DueDate
		})
	}

	task := h.store.FindByID(id)
	h.log.Info("task created", zap.Int("id", id))
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// UpdateTask handles PUT /api/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	updated := h.store.Update(id, func(t *models.Task) {
		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			t.Title = *req.Title
		}
		if req.Status != nil {
			status := models.ParseStatus(*req.Status)
			if status == models.StatusCompleted {
				t.MarkComplete()
			} else {
				t.Status = status
			}
		}
	})
	if !updated {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Task not found"})
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(h.store.FindByID(id)))
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	if !h.store.Delete(id) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Task not found"})
		return
	}
	h.log.Info("task deleted", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
	})
}

// GetStats handles GET /api/stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Statistics())
}

func (h *Handler) taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid task id"})
		return 0, false
	}
	return id, true
}
