package domain

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus represents the board column a task belongs to.
type TaskStatus string

// The fixed set of board columns. Tasks never hold any other value.
const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// SortOrderGap is the spacing left between consecutive order keys within a
// column, so a single task can be slotted between two neighbors without
// renumbering the rest of the column.
const SortOrderGap = 10

// Common validation errors for Task
var (
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Task is a single board item. SortOrder establishes its manual position
// within the column identified by Status; the value carries no meaning
// across columns.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SortOrder   int        `json:"sortOrder"`
}

// NewTask creates a new Task with the given fields. A blank status defaults
// to "To Do". The ID and SortOrder are left at zero; the store assigns the
// ID and the service computes the order key before persisting.
// Returns an error if validation fails.
func NewTask(title, description string, dueDate *time.Time, status string) (*Task, error) {
	st := TaskStatusToDo
	if strings.TrimSpace(status) != "" {
		parsed, err := ParseTaskStatus(status)
		if err != nil {
			return nil, err
		}
		st = parsed
	}

	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      st,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// ApplyUpdate replaces the task's mutable fields (title, description, due
// date, status) and refreshes the UpdatedAt timestamp. ID, CreatedAt and
// SortOrder are never touched here; order recomputation on a status change
// is the service's concern.
// Returns an error if the resulting task would be invalid.
func (t *Task) ApplyUpdate(title, description string, dueDate *time.Time, status TaskStatus) error {
	if !IsValidTaskStatus(status) {
		return ErrInvalidTaskStatus
	}
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTaskTitle
	}

	t.Title = title
	t.Description = description
	t.DueDate = dueDate
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ParseTaskStatus converts raw string input into a TaskStatus,
// case-insensitively. Returns ErrInvalidTaskStatus for anything outside the
// fixed status set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to do":
		return TaskStatusToDo, nil
	case "in progress":
		return TaskStatusInProgress, nil
	case "done":
		return TaskStatusDone, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

// IsValidTaskStatus checks if the given status is a member of the fixed
// status set.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// AllTaskStatuses returns the fixed status set in board display order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusToDo, TaskStatusInProgress, TaskStatusDone}
}
