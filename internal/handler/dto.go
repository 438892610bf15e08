package handler

import "taskman/internal/domain/models"

// TaskResponse is the wire shape of a task. It extends the stored
// fields with the derived completion and overdue flags so clients do
// not have to re-derive them.
type TaskResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
	DueDate     int64  `json:"dueDate"`
	IsCompleted bool   `json:"isCompleted"`
	IsOverdue   bool   `json:"isOverdue"`
}

// CreateTaskRequest is the body of POST /api/tasks. Priority is
// optional and parsed leniently.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     int64  `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Nil fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted(),
		IsOverdue:   t.IsOverdue(),
	}
}

func toTaskResponses(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
