package store

import (
	"strings"
	"time"
)

// SortField identifies the primary sort key for a task listing.
type SortField string

// Supported sort fields. SortFieldBoard is the manual board order
// (the sortOrder column).
const (
	SortFieldCreated SortField = "created"
	SortFieldDue     SortField = "due"
	SortFieldTitle   SortField = "title"
	SortFieldStatus  SortField = "status"
	SortFieldBoard   SortField = "sortOrder"
)

// Pagination bounds. Values outside these are clamped, never rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TaskQueryParams carries the raw, client-supplied filter/sort/page inputs
// before normalization. All fields are optional.
type TaskQueryParams struct {
	Status   string
	Keywords string
	DueFrom  *time.Time
	DueTo    *time.Time
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// TaskQuery is the normalized, deterministic query plan produced from
// TaskQueryParams. Every plan yields a total order (the id tie-break is
// appended by the store), so paginating the same plan twice returns
// identical pages.
type TaskQuery struct {
	// Status filters to a single column, matched case-insensitively.
	// Empty means no status filter.
	Status string

	// Keywords is matched as a case-insensitive substring of title or
	// description. Wildcard metacharacters in the input are escaped by the
	// store so they match literally.
	Keywords string

	// DueFrom is the inclusive lower bound, truncated to start of day (UTC).
	DueFrom *time.Time

	// DueBefore is the exclusive upper bound: start of the day after the
	// requested dueTo, so the entire dueTo day is included.
	DueBefore *time.Time

	SortBy   SortField
	SortDesc bool

	Offset int
	Limit  int
}

// BuildTaskQuery normalizes raw query parameters into an executable plan.
// Malformed inputs are coerced to defaults rather than rejected: page < 1
// becomes 1, pageSize outside [1,100] becomes 20, an unknown sort field
// falls back to created, and the special status value "All" (any case)
// disables the status filter.
func BuildTaskQuery(p TaskQueryParams) TaskQuery {
	q := TaskQuery{}

	status := strings.TrimSpace(p.Status)
	if status != "" && !strings.EqualFold(status, "All") {
		q.Status = status
	}

	q.Keywords = strings.TrimSpace(p.Keywords)

	if p.DueFrom != nil {
		from := startOfDayUTC(*p.DueFrom)
		q.DueFrom = &from
	}
	if p.DueTo != nil {
		// Inclusive end-of-day semantics: strict upper bound on the next day.
		before := startOfDayUTC(*p.DueTo).Add(24 * time.Hour)
		q.DueBefore = &before
	}

	switch strings.ToLower(strings.TrimSpace(p.SortBy)) {
	case "due":
		q.SortBy = SortFieldDue
	case "title":
		q.SortBy = SortFieldTitle
	case "status":
		q.SortBy = SortFieldStatus
	case "sortorder", "board":
		q.SortBy = SortFieldBoard
	default:
		q.SortBy = SortFieldCreated
	}

	q.SortDesc = strings.EqualFold(strings.TrimSpace(p.SortDir), "desc")

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	q.Offset = (page - 1) * pageSize
	q.Limit = pageSize

	return q
}

// startOfDayUTC truncates a timestamp to midnight UTC of its calendar day.
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
