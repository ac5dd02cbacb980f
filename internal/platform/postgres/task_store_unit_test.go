package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresTaskStore(t *testing.T) {
	t.Parallel()

	t.Run("valid db", func(t *testing.T) {
		t.Parallel()

		s := NewPostgresTaskStore(&sql.DB{}, nil)
		assert.NotNil(t, s)
		assert.NotNil(t, s.db)
		assert.NotNil(t, s.logger, "nil logger should be replaced with a default")
	})

	t.Run("nil db panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			NewPostgresTaskStore(nil, nil)
		})
	})
}

func TestBuildTaskFilter(t *testing.T) {
	t.Parallel()

	t.Run("no filters yields no WHERE clause", func(t *testing.T) {
		t.Parallel()

		where, args := buildTaskFilter(store.TaskQuery{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("status filter is case-insensitive equality", func(t *testing.T) {
		t.Parallel()

		where, args := buildTaskFilter(store.TaskQuery{Status: "done"})
		assert.Equal(t, " WHERE LOWER(status) = LOWER($1)", where)
		assert.Equal(t, []any{"done"}, args)
	})

	t.Run("keywords search title and description with escaped pattern", func(t *testing.T) {
		t.Parallel()

		where, args := buildTaskFilter(store.TaskQuery{Keywords: "milk"})
		assert.Equal(t, ` WHERE (title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')`, where)
		assert.Equal(t, []any{"%milk%"}, args)
	})

	t.Run("wildcard metacharacters in keywords are escaped", func(t *testing.T) {
		t.Parallel()

		_, args := buildTaskFilter(store.TaskQuery{Keywords: `50%_done\`})
		require.Len(t, args, 1)
		assert.Equal(t, `%50\%\_done\\%`, args[0],
			"literal %%, _ and \\ must not act as wildcards")
	})

	t.Run("date bounds use inclusive lower and strict upper", func(t *testing.T) {
		t.Parallel()

		from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		before := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

		where, args := buildTaskFilter(store.TaskQuery{DueFrom: &from, DueBefore: &before})
		assert.Equal(t, " WHERE due_date >= $1 AND due_date < $2", where)
		assert.Equal(t, []any{from, before}, args)
	})

	t.Run("all filters combine with AND and sequential placeholders", func(t *testing.T) {
		t.Parallel()

		from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		before := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

		where, args := buildTaskFilter(store.TaskQuery{
			Status:    "To Do",
			Keywords:  "milk",
			DueFrom:   &from,
			DueBefore: &before,
		})
		assert.Equal(t,
			` WHERE LOWER(status) = LOWER($1) AND (title ILIKE $2 ESCAPE '\' OR description ILIKE $2 ESCAPE '\') AND due_date >= $3 AND due_date < $4`,
			where)
		assert.Len(t, args, 4)
	})
}

func TestBuildTaskOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    store.TaskQuery
		want string
	}{
		{
			name: "created ascending with id tie-break",
			q:    store.TaskQuery{SortBy: store.SortFieldCreated},
			want: " ORDER BY created_at ASC, id ASC",
		},
		{
			name: "created descending keeps ascending id tie-break",
			q:    store.TaskQuery{SortBy: store.SortFieldCreated, SortDesc: true},
			want: " ORDER BY created_at DESC, id ASC",
		},
		{
			name: "due date sort",
			q:    store.TaskQuery{SortBy: store.SortFieldDue},
			want: " ORDER BY due_date ASC, id ASC",
		},
		{
			name: "title sort",
			q:    store.TaskQuery{SortBy: store.SortFieldTitle, SortDesc: true},
			want: " ORDER BY title DESC, id ASC",
		},
		{
			name: "status sort",
			q:    store.TaskQuery{SortBy: store.SortFieldStatus},
			want: " ORDER BY status ASC, id ASC",
		},
		{
			name: "board order within a single column",
			q:    store.TaskQuery{SortBy: store.SortFieldBoard, Status: "To Do"},
			want: " ORDER BY sort_order ASC, id ASC",
		},
		{
			name: "board order across all columns groups by status first",
			q:    store.TaskQuery{SortBy: store.SortFieldBoard},
			want: " ORDER BY status ASC, sort_order ASC, id ASC",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, buildTaskOrder(tc.q))
		})
	}
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "plain", want: "plain"},
		{input: "50%", want: `50\%`},
		{input: "a_b", want: `a\_b`},
		{input: `back\slash`, want: `back\\slash`},
		{input: `%_\`, want: `\%\_\\`},
		{input: "", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, escapeLikePattern(tc.input), "input %q", tc.input)
	}
}
