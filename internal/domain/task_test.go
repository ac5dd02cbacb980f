package domain_test

import (
	"testing"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("valid task with explicit status", func(t *testing.T) {
		t.Parallel()

		due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		task, err := domain.NewTask("Buy milk", "2 liters", &due, "In Progress")

		require.NoError(t, err)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "2 liters", task.Description)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, due, *task.DueDate)
		assert.False(t, task.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.Equal(t, task.CreatedAt, task.UpdatedAt, "timestamps should match at creation")
		assert.Zero(t, task.SortOrder, "order key is assigned by the service, not the constructor")
	})

	t.Run("blank status defaults to To Do", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", "", nil, "")

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusToDo, task.Status)
	})

	t.Run("whitespace-only status defaults to To Do", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", "", nil, "   ")

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusToDo, task.Status)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTask("", "", nil, "")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

		_, err = domain.NewTask("   ", "", nil, "")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTask("Buy milk", "", nil, "Archived")
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    domain.TaskStatus
		wantErr bool
	}{
		{name: "exact match", input: "To Do", want: domain.TaskStatusToDo},
		{name: "lowercase", input: "in progress", want: domain.TaskStatusInProgress},
		{name: "uppercase", input: "DONE", want: domain.TaskStatusDone},
		{name: "surrounding whitespace", input: "  Done  ", want: domain.TaskStatusDone},
		{name: "unknown value", input: "Archived", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseTaskStatus(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTaskApplyUpdate(t *testing.T) {
	t.Parallel()

	t.Run("mutable fields replaced and UpdatedAt refreshed", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", "", nil, "")
		require.NoError(t, err)

		task.ID = 7
		task.SortOrder = 30
		created := task.CreatedAt

		due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		err = task.ApplyUpdate("Buy oat milk", "barista edition", &due, domain.TaskStatusDone)
		require.NoError(t, err)

		assert.Equal(t, int64(7), task.ID, "ID is immutable")
		assert.Equal(t, 30, task.SortOrder, "order key is not touched by field updates")
		assert.Equal(t, "Buy oat milk", task.Title)
		assert.Equal(t, "barista edition", task.Description)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		assert.Equal(t, created, task.CreatedAt, "CreatedAt is set once")
		assert.True(t, !task.UpdatedAt.Before(created), "UpdatedAt must not precede CreatedAt")
	})

	t.Run("invalid status rejected without mutation", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", "", nil, "")
		require.NoError(t, err)

		err = task.ApplyUpdate("Buy milk", "", nil, domain.TaskStatus("Archived"))
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
		assert.Equal(t, domain.TaskStatusToDo, task.Status, "status should be unchanged")
	})

	t.Run("empty title rejected without mutation", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", "", nil, "")
		require.NoError(t, err)

		err = task.ApplyUpdate("", "", nil, domain.TaskStatusDone)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		assert.Equal(t, "Buy milk", task.Title, "title should be unchanged")
	})
}

func TestIsValidTaskStatus(t *testing.T) {
	t.Parallel()

	for _, s := range domain.AllTaskStatuses() {
		assert.True(t, domain.IsValidTaskStatus(s), "status %q should be valid", s)
	}
	assert.False(t, domain.IsValidTaskStatus(domain.TaskStatus("Archived")))
	assert.False(t, domain.IsValidTaskStatus(domain.TaskStatus("")))
	assert.False(t, domain.IsValidTaskStatus(domain.TaskStatus("to do")), "enum values are canonical, parsing handles case folding")
}
