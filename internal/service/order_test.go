package service

import (
	"errors"
	"testing"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReorderPlan(t *testing.T) {
	t.Parallel()

	t.Run("assigns spaced keys from the top of each column", func(t *testing.T) {
		t.Parallel()

		plan, err := buildReorderPlan([]ColumnOrder{
			{Status: "To Do", OrderedIDs: []int64{7, 3, 9}},
		})
		require.NoError(t, err)
		require.Len(t, plan, 3)

		assert.Equal(t, positionAssignment{TaskID: 7, Status: domain.TaskStatusToDo, SortOrder: 10}, plan[0])
		assert.Equal(t, positionAssignment{TaskID: 3, Status: domain.TaskStatusToDo, SortOrder: 20}, plan[1])
		assert.Equal(t, positionAssignment{TaskID: 9, Status: domain.TaskStatusToDo, SortOrder: 30}, plan[2])
	})

	t.Run("numbers columns independently and carries the column status", func(t *testing.T) {
		t.Parallel()

		plan, err := buildReorderPlan([]ColumnOrder{
			{Status: "To Do", OrderedIDs: []int64{1, 2}},
			{Status: "In Progress", OrderedIDs: []int64{5}},
		})
		require.NoError(t, err)
		require.Len(t, plan, 3)

		assert.Equal(t, 10, plan[0].SortOrder)
		assert.Equal(t, 20, plan[1].SortOrder)

		// First slot of the second column starts over at the gap.
		assert.Equal(t, int64(5), plan[2].TaskID)
		assert.Equal(t, domain.TaskStatusInProgress, plan[2].Status)
		assert.Equal(t, 10, plan[2].SortOrder)
	})

	t.Run("accepts statuses case-insensitively", func(t *testing.T) {
		t.Parallel()

		plan, err := buildReorderPlan([]ColumnOrder{
			{Status: "done", OrderedIDs: []int64{4}},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, plan[0].Status)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		t.Parallel()

		_, err := buildReorderPlan(nil)
		assert.ErrorIs(t, err, ErrEmptyReorderBatch)
	})

	t.Run("rejects a batch with no task ids", func(t *testing.T) {
		t.Parallel()

		_, err := buildReorderPlan([]ColumnOrder{
			{Status: "To Do", OrderedIDs: nil},
			{Status: "Done", OrderedIDs: []int64{}},
		})
		assert.ErrorIs(t, err, ErrNoReorderIDs)
	})

	t.Run("rejects the whole batch on one unknown status", func(t *testing.T) {
		t.Parallel()

		_, err := buildReorderPlan([]ColumnOrder{
			{Status: "To Do", OrderedIDs: []int64{1}},
			{Status: "Archived", OrderedIDs: []int64{2}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTaskStatus))
	})

	t.Run("allows the same id to appear more than once", func(t *testing.T) {
		t.Parallel()

		// The last assignment wins at apply time; the planner does not
		// deduplicate.
		plan, err := buildReorderPlan([]ColumnOrder{
			{Status: "To Do", OrderedIDs: []int64{1}},
			{Status: "Done", OrderedIDs: []int64{1}},
		})
		require.NoError(t, err)
		require.Len(t, plan, 2)
		assert.Equal(t, domain.TaskStatusDone, plan[1].Status)
	})
}
