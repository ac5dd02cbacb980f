package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// TaskRepositoryAdapter adapts a store.TaskStore to the TaskRepository
// interface, adding access to the underlying database handle for
// transaction management.
type TaskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// NewTaskRepositoryAdapter creates a TaskRepository backed by the given
// store and database handle.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) *TaskRepositoryAdapter {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}

	return &TaskRepositoryAdapter{
		taskStore: taskStore,
		db:        db,
	}
}

// Ensure TaskRepositoryAdapter implements TaskRepository
var _ TaskRepository = (*TaskRepositoryAdapter)(nil)

func (a *TaskRepositoryAdapter) Create(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Create(ctx, task)
}

func (a *TaskRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return a.taskStore.GetByID(ctx, id)
}

func (a *TaskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

func (a *TaskRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	return a.taskStore.Delete(ctx, id)
}

func (a *TaskRepositoryAdapter) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, error) {
	return a.taskStore.List(ctx, q)
}

func (a *TaskRepositoryAdapter) MaxSortOrder(ctx context.Context, status domain.TaskStatus) (int, error) {
	return a.taskStore.MaxSortOrder(ctx, status)
}

func (a *TaskRepositoryAdapter) SetPosition(
	ctx context.Context,
	id int64,
	status domain.TaskStatus,
	sortOrder int,
	updatedAt time.Time,
) (bool, error) {
	return a.taskStore.SetPosition(ctx, id, status, sortOrder, updatedAt)
}

// WithTx returns a TaskRepository whose operations run within the given
// transaction. The database handle is shared so nested transaction starts
// remain possible, though callers should not rely on that.
func (a *TaskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &TaskRepositoryAdapter{
		taskStore: a.taskStore.WithTxTaskStore(tx),
		db:        a.db,
	}
}

// DB returns the underlying database handle for transaction management.
func (a *TaskRepositoryAdapter) DB() *sql.DB {
	return a.db
}
