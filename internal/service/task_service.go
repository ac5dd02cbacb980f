package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// TaskRepository defines the interface for task data access needed by the
// service layer. It extends the basic store operations with transaction
// support so multi-write operations can run atomically.
type TaskRepository interface {
	// Create saves a new task and writes the generated ID back into it.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update persists the task's current field values.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// List executes a normalized query plan and returns the matching page
	// plus the total pre-pagination match count.
	List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, error)

	// MaxSortOrder returns the highest order key in the given column, or 0
	// when the column is empty.
	MaxSortOrder(ctx context.Context, status domain.TaskStatus) (int, error)

	// SetPosition moves one task to the given column position. A missing
	// task yields (false, nil) rather than an error.
	SetPosition(ctx context.Context, id int64, status domain.TaskStatus, sortOrder int, updatedAt time.Time) (bool, error)

	// WithTx returns a repository whose operations run within the given
	// transaction.
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database handle for transaction management.
	DB() *sql.DB
}

// ListCache caches list query results keyed by the normalized query plan.
// Implementations must treat a miss as (nil, 0, false, nil).
type ListCache interface {
	GetList(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, bool, error)
	SetList(ctx context.Context, q store.TaskQuery, tasks []*domain.Task, total int) error
	Invalidate(ctx context.Context) error
}

// TaskService coordinates task operations: CRUD, board queries and atomic
// drag-and-drop reordering. All multi-write operations run in a single
// database transaction.
type TaskService struct {
	repo   TaskRepository
	cache  ListCache
	logger *slog.Logger
}

// NewTaskService creates a new TaskService. The cache is optional; pass nil
// to disable list caching.
func NewTaskService(repo TaskRepository, cache ListCache, logger *slog.Logger) *TaskService {
	if repo == nil {
		panic("repo cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask creates a new task and places it at the bottom of its column.
// The new order key is the column's current maximum plus the standard gap,
// so a freshly created task always sorts after existing ones.
func (s *TaskService) CreateTask(
	ctx context.Context,
	title string,
	description string,
	dueDate *time.Time,
	status string,
) (*domain.Task, error) {
	task, err := domain.NewTask(title, description, dueDate, status)
	if err != nil {
		s.logger.Warn("invalid task data",
			slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		max, err := txRepo.MaxSortOrder(ctx, task.Status)
		if err != nil {
			return fmt.Errorf("getting max sort order: %w", err)
		}
		task.SortOrder = max + domain.SortOrderGap

		if err := txRepo.Create(ctx, task); err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return task, nil
}

// GetTask retrieves a single task by ID.
// Returns ErrTaskNotFound if the task does not exist.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return task, nil
}

// UpdateTask applies new field values to an existing task. When the update
// moves the task to a different column, the task is appended to the bottom
// of the target column; otherwise its board position is unchanged.
// Returns ErrTaskNotFound if the task does not exist.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	id int64,
	title string,
	description string,
	dueDate *time.Time,
	status string,
) (*domain.Task, error) {
	newStatus, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		task, err := txRepo.GetByID(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("getting task: %w", err)
		}

		statusChanged := task.Status != newStatus

		if err := task.ApplyUpdate(title, description, dueDate, newStatus); err != nil {
			return err
		}

		if statusChanged {
			max, err := txRepo.MaxSortOrder(ctx, newStatus)
			if err != nil {
				return fmt.Errorf("getting max sort order: %w", err)
			}
			task.SortOrder = max + domain.SortOrderGap
		}

		if err := txRepo.Update(ctx, task); err != nil {
			if store.IsNotFoundError(err) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("updating task: %w", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("task updated",
		slog.Int64("task_id", id),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// DeleteTask removes a task by ID. Order keys of the remaining column
// members are left untouched.
// Returns ErrTaskNotFound if the task does not exist.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// ListTasks executes a filtered, sorted, paginated task query. Raw request
// parameters are normalized into a query plan first, so equivalent requests
// hit the same cache entry.
func (s *TaskService) ListTasks(ctx context.Context, params store.TaskQueryParams) ([]*domain.Task, int, error) {
	q := store.BuildTaskQuery(params)

	if s.cache != nil {
		tasks, total, ok, err := s.cache.GetList(ctx, q)
		if err != nil {
			s.logger.Warn("list cache read failed",
				slog.String("error", err.Error()))
		} else if ok {
			return tasks, total, nil
		}
	}

	tasks, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tasks: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, q, tasks, total); err != nil {
			s.logger.Warn("list cache write failed",
				slog.String("error", err.Error()))
		}
	}

	return tasks, total, nil
}

// ReorderTasks applies a drag-and-drop reorder batch atomically. Each column
// entry lists its tasks top to bottom; every listed task gets a fresh spaced
// order key and is forced into that column's status. Ids that no longer
// exist are skipped without failing the batch. An invalid batch (empty, no
// ids, or an unknown status) is rejected wholesale before any write.
func (s *TaskService) ReorderTasks(ctx context.Context, columns []ColumnOrder) error {
	plan, err := buildReorderPlan(columns)
	if err != nil {
		s.logger.Warn("rejecting reorder batch",
			slog.String("error", err.Error()))
		return err
	}

	now := time.Now().UTC()
	applied := 0
	skipped := 0

	err = store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		for _, p := range plan {
			found, err := txRepo.SetPosition(ctx, p.TaskID, p.Status, p.SortOrder, now)
			if err != nil {
				return fmt.Errorf("positioning task %d: %w", p.TaskID, err)
			}
			if found {
				applied++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("reorder applied",
		slog.Int("tasks_positioned", applied),
		slog.Int("tasks_skipped", skipped))
	return nil
}

// invalidateListCache drops all cached list pages after a mutation. Cache
// failures are logged, never surfaced; the database remains authoritative.
func (s *TaskService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("list cache invalidation failed",
			slog.String("error", err.Error()))
	}
}
