package service

import (
	"fmt"

	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// ColumnOrder describes the desired top-to-bottom ordering of one board
// column after a drag-and-drop operation.
type ColumnOrder struct {
	Status     string
	OrderedIDs []int64
}

// positionAssignment is one task's target placement computed from a
// reorder batch.
type positionAssignment struct {
	TaskID    int64
	Status    domain.TaskStatus
	SortOrder int
}

// buildReorderPlan validates a reorder batch and expands it into per-task
// position assignments. Ordering keys are spaced by domain.SortOrderGap so
// later single-task moves can slot between neighbors without rewriting the
// whole column.
//
// The whole batch is rejected if any column names an unknown status, if the
// batch is empty, or if no column carries any task ids. Unknown task ids are
// NOT rejected here; the caller skips them at apply time.
func buildReorderPlan(columns []ColumnOrder) ([]positionAssignment, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyReorderBatch
	}

	totalIDs := 0
	for _, col := range columns {
		totalIDs += len(col.OrderedIDs)
	}
	if totalIDs == 0 {
		return nil, ErrNoReorderIDs
	}

	plan := make([]positionAssignment, 0, totalIDs)
	for _, col := range columns {
		status, err := domain.ParseTaskStatus(col.Status)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Status, err)
		}
		for i, id := range col.OrderedIDs {
			plan = append(plan, positionAssignment{
				TaskID:    id,
				Status:    status,
				SortOrder: (i + 1) * domain.SortOrderGap,
			})
		}
	}
	return plan, nil
}
