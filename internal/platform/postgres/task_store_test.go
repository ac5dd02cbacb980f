package postgres_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/platform/postgres"
	"github.com/kanbanlab/taskboard-api/internal/store"
	"github.com/kanbanlab/taskboard-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTask inserts a task through the store under test and fails fast on
// error.
func createTask(
	t *testing.T,
	s store.TaskStore,
	title string,
	status domain.TaskStatus,
	sortOrder int,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, "", nil, string(status))
	require.NoError(t, err)
	task.SortOrder = sortOrder

	require.NoError(t, s.Create(context.Background(), task))
	require.NotZero(t, task.ID)
	return task
}

func TestPostgresTaskStore_CRUD(t *testing.T) {
	t.Parallel()

	db := testutils.GetTestDBWithT(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		taskStore := postgres.NewPostgresTaskStore(tx, slog.Default())
		ctx := context.Background()

		created := createTask(t, taskStore, "Inventory audit", domain.TaskStatusToDo, 10)

		t.Run("GetByID round-trips the row", func(t *testing.T) {
			got, err := taskStore.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Inventory audit", got.Title)
			assert.Equal(t, domain.TaskStatusToDo, got.Status)
			assert.Equal(t, 10, got.SortOrder)
			assert.Nil(t, got.DueDate)
		})

		t.Run("GetByID on a missing id", func(t *testing.T) {
			_, err := taskStore.GetByID(ctx, 999999999)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
		})

		t.Run("Update persists field changes", func(t *testing.T) {
			due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
			require.NoError(t, created.ApplyUpdate("Inventory audit", "warehouse B", &due, domain.TaskStatusInProgress))
			require.NoError(t, taskStore.Update(ctx, created))

			got, err := taskStore.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "warehouse B", got.Description)
			assert.Equal(t, domain.TaskStatusInProgress, got.Status)
			require.NotNil(t, got.DueDate)
			assert.True(t, got.DueDate.Equal(due))
		})

		t.Run("Update on a missing id", func(t *testing.T) {
			missing := *created
			missing.ID = 999999999
			assert.ErrorIs(t, taskStore.Update(ctx, &missing), store.ErrTaskNotFound)
		})

		t.Run("Delete removes the row", func(t *testing.T) {
			require.NoError(t, taskStore.Delete(ctx, created.ID))
			_, err := taskStore.GetByID(ctx, created.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
			assert.ErrorIs(t, taskStore.Delete(ctx, created.ID), store.ErrTaskNotFound)
		})
	})
}

func TestPostgresTaskStore_List(t *testing.T) {
	t.Parallel()

	db := testutils.GetTestDBWithT(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		taskStore := postgres.NewPostgresTaskStore(tx, slog.Default())
		ctx := context.Background()

		// Clear out rows from other suites so counts are deterministic;
		// the surrounding transaction rolls this back too.
		_, err := tx.ExecContext(ctx, "DELETE FROM tasks")
		require.NoError(t, err)

		alpha := createTask(t, taskStore, "Alpha rollout", domain.TaskStatusToDo, 10)
		beta := createTask(t, taskStore, "Beta cleanup", domain.TaskStatusToDo, 20)
		gamma := createTask(t, taskStore, "Gamma review", domain.TaskStatusDone, 10)

		due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		require.NoError(t, beta.ApplyUpdate(beta.Title, "sweep stale flags", &due, beta.Status))
		require.NoError(t, taskStore.Update(ctx, beta))

		t.Run("unfiltered list returns everything with the total", func(t *testing.T) {
			tasks, total, err := taskStore.List(ctx, store.BuildTaskQuery(store.TaskQueryParams{}))
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			assert.Len(t, tasks, 3)
		})

		t.Run("status filter is case-insensitive", func(t *testing.T) {
			tasks, total, err := taskStore.List(ctx, store.BuildTaskQuery(store.TaskQueryParams{Status: "to do"}))
			require.NoError(t, err)
			assert.Equal(t, 2, total)
			for _, task := range tasks {
				assert.Equal(t, domain.TaskStatusToDo, task.Status)
			}
		})

		t.Run("keyword search matches title or description", func(t *testing.T) {
			tasks, total, err := taskStore.List(ctx, store.BuildTaskQuery(store.TaskQueryParams{Keywords: "stale flags"}))
			require.NoError(t, err)
			require.Equal(t, 1, total)
			assert.Equal(t, beta.ID, tasks[0].ID)
		})

		t.Run("due range includes the whole dueTo day", func(t *testing.T) {
			from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
			tasks, total, err := taskStore.List(ctx, store.BuildTaskQuery(store.TaskQueryParams{
				DueFrom: &from,
				DueTo:   &to,
			}))
			require.NoError(t, err)
			require.Equal(t, 1, total)
			assert.Equal(t, beta.ID, tasks[0].ID)
		})

		t.Run("board order groups by status with id tie-break", func(t *testing.T) {
			tasks, _, err := taskStore.List(ctx, store.BuildTaskQuery(store.TaskQueryParams{SortBy: "sortOrder"}))
			require.NoError(t, err)
			require.Len(t, tasks, 3)
			// Status sorts ascending: Done before To Do alphabetically.
			assert.Equal(t, gamma.ID, tasks[0].ID)
			assert.Equal(t, alpha.ID, tasks[1].ID)
			assert.Equal(t, beta.ID, tasks[2].ID)
		})

		t.Run("pagination slices a stable ordering", func(t *testing.T) {
			q := store.BuildTaskQuery(store.TaskQueryParams{SortBy: "title", Page: 2, PageSize: 2})
			tasks, total, err := taskStore.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			require.Len(t, tasks, 1)
			assert.Equal(t, gamma.ID, tasks[0].ID)
		})
	})
}

func TestPostgresTaskStore_Positioning(t *testing.T) {
	t.Parallel()

	db := testutils.GetTestDBWithT(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		taskStore := postgres.NewPostgresTaskStore(tx, slog.Default())
		ctx := context.Background()

		_, err := tx.ExecContext(ctx, "DELETE FROM tasks")
		require.NoError(t, err)

		t.Run("MaxSortOrder on an empty column", func(t *testing.T) {
			max, err := taskStore.MaxSortOrder(ctx, domain.TaskStatusDone)
			require.NoError(t, err)
			assert.Equal(t, 0, max)
		})

		task := createTask(t, taskStore, "Positioned task", domain.TaskStatusToDo, 30)

		t.Run("MaxSortOrder sees the highest key", func(t *testing.T) {
			max, err := taskStore.MaxSortOrder(ctx, domain.TaskStatusToDo)
			require.NoError(t, err)
			assert.Equal(t, 30, max)
		})

		t.Run("SetPosition moves the task across columns", func(t *testing.T) {
			now := time.Now().UTC()
			found, err := taskStore.SetPosition(ctx, task.ID, domain.TaskStatusDone, 10, now)
			require.NoError(t, err)
			assert.True(t, found)

			got, err := taskStore.GetByID(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStatusDone, got.Status)
			assert.Equal(t, 10, got.SortOrder)
		})

		t.Run("SetPosition on a missing id reports not found without error", func(t *testing.T) {
			found, err := taskStore.SetPosition(ctx, 999999999, domain.TaskStatusDone, 10, time.Now().UTC())
			require.NoError(t, err)
			assert.False(t, found)
		})
	})
}
