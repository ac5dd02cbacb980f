package api

import (
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// CreateTaskRequest contains the payload for creating a task. Status is
// optional and defaults to the first board column; DueDate accepts either a
// plain date (2006-01-02) or an RFC 3339 timestamp.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

// UpdateTaskRequest contains the payload for a full task update. The ID is
// optional but must match the path when present.
type UpdateTaskRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status" validate:"required"`
}

// ReorderColumnRequest describes one board column's desired top-to-bottom
// ordering after a drag-and-drop.
type ReorderColumnRequest struct {
	Status     string  `json:"status" validate:"required"`
	OrderedIDs []int64 `json:"orderedIds"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SortOrder   int        `json:"sortOrder"`
}

// taskToResponse converts a domain task to its wire representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		SortOrder:   task.SortOrder,
	}
}

// tasksToResponse converts a page of domain tasks, always yielding a
// non-nil slice so empty pages serialize as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
