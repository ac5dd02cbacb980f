package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store. The store assigns the ID and
	// writes it back into the given task.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update persists the task's mutable fields plus status, sort order
	// and updated-at timestamp.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Hard delete; sibling
	// order keys are left untouched.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// List executes a normalized task query and returns the matching page
	// together with the total pre-pagination match count.
	// An out-of-range page yields an empty slice, not an error.
	List(ctx context.Context, q TaskQuery) ([]*domain.Task, int, error)

	// MaxSortOrder returns the highest order key currently present in the
	// given status column, or 0 if the column is empty.
	MaxSortOrder(ctx context.Context, status domain.TaskStatus) (int, error)

	// SetPosition moves a single task to the given column position: it sets
	// status, sort order and updated-at in one write. Returns false (and no
	// error) if no task with that ID exists, so reorder batches can skip
	// ids deleted by a concurrent client.
	//
	// IMPORTANT: when called as part of a reorder batch this MUST run within
	// a transaction (use WithTxTaskStore together with RunInTransaction) so
	// the whole batch commits or rolls back as a unit.
	SetPosition(
		ctx context.Context,
		id int64,
		status domain.TaskStatus,
		sortOrder int,
		updatedAt time.Time,
	) (bool, error)

	// WithTxTaskStore returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service via RunInTransaction).
	WithTxTaskStore(tx *sql.Tx) TaskStore
}
