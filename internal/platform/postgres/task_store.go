package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/platform/logger"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTxTaskStore implements store.TaskStore.WithTxTaskStore
func (s *PostgresTaskStore) WithTxTaskStore(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database and writes the generated ID back
// into the given task. Returns validation errors if the task data is invalid.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (title, description, due_date, status, created_at, updated_at, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
		task.SortOrder,
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("status", string(task.Status)))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.Int("sort_order", task.SortOrder))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, due_date, status, created_at, updated_at, sort_order
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It persists the task's mutable fields plus status, sort order and
// updated-at timestamp.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, status = $4, updated_at = $5, sort_order = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.UpdatedAt,
		task.SortOrder,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// It removes a task from the store by its ID. Sibling order keys are not
// renumbered; the gap the task leaves behind is harmless.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// List implements store.TaskStore.List
// It executes the normalized query plan and returns the matching page plus
// the total pre-pagination match count.
func (s *PostgresTaskStore) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	listQuery := `
		SELECT id, title, description, due_date, status, created_at, updated_at, sort_order
		FROM tasks` + where + buildTaskOrder(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	listArgs := append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, 0, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	// Return empty slice instead of nil if no tasks matched
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks",
		slog.Int("count", len(tasks)),
		slog.Int("total", total))
	return tasks, total, nil
}

// MaxSortOrder implements store.TaskStore.MaxSortOrder
// It returns the highest order key in the given status column, or 0 if the
// column is empty.
func (s *PostgresTaskStore) MaxSortOrder(ctx context.Context, status domain.TaskStatus) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var max int
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM tasks WHERE status = $1`
	if err := s.db.QueryRowContext(ctx, query, status).Scan(&max); err != nil {
		log.Error("failed to get max sort order",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return 0, MapError(err)
	}

	return max, nil
}

// SetPosition implements store.TaskStore.SetPosition
// It moves a single task to the given column position in one write.
// A missing task is reported as (false, nil) so reorder batches can skip
// ids removed by a concurrent delete.
func (s *PostgresTaskStore) SetPosition(
	ctx context.Context,
	id int64,
	status domain.TaskStatus,
	sortOrder int,
	updatedAt time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, sort_order = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, sortOrder, updatedAt, id)
	if err != nil {
		log.Error("failed to set task position",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("status", string(status)),
			slog.Int("sort_order", sortOrder))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, MapError(err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for position update, skipping",
			slog.Int64("task_id", id))
		return false, nil
	}

	return true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row. Description and due date are nullable in
// the schema.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var dueDate sql.NullTime
	var status string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&dueDate,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	task.Status = domain.TaskStatus(status)

	return &task, nil
}

// buildTaskFilter translates the query plan's filters into a WHERE clause
// and its positional arguments. Returns an empty string when no filter
// applies.
func buildTaskFilter(q store.TaskQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("LOWER(status) = LOWER($%d)", len(args)))
	}

	if q.Keywords != "" {
		args = append(args, "%"+escapeLikePattern(q.Keywords)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}

	if q.DueFrom != nil {
		args = append(args, *q.DueFrom)
		conds = append(conds, fmt.Sprintf("due_date >= $%d", len(args)))
	}

	if q.DueBefore != nil {
		args = append(args, *q.DueBefore)
		conds = append(conds, fmt.Sprintf("due_date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildTaskOrder translates the query plan's sort into an ORDER BY clause.
// Every ordering ends with an ascending id tie-break so pagination is
// stable across requests. Board order across all columns groups by status
// first, since order keys are only meaningful within a column.
func buildTaskOrder(q store.TaskQuery) string {
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	var keys []string
	switch q.SortBy {
	case store.SortFieldDue:
		keys = []string{"due_date " + dir}
	case store.SortFieldTitle:
		keys = []string{"title " + dir}
	case store.SortFieldStatus:
		keys = []string{"status " + dir}
	case store.SortFieldBoard:
		if q.Status != "" {
			keys = []string{"sort_order " + dir}
		} else {
			keys = []string{"status " + dir, "sort_order " + dir}
		}
	default:
		keys = []string{"created_at " + dir}
	}

	keys = append(keys, "id ASC")
	return " ORDER BY " + strings.Join(keys, ", ")
}

// escapeLikePattern escapes LIKE/ILIKE metacharacters so user input
// matches literally: a search for "50%" must not match "50 anything".
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
