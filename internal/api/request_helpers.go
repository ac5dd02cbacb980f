package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// getPathID extracts a numeric task id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", paramName)
	}

	return id, nil
}

// parseDueDate accepts either a plain date (2006-01-02) or an RFC 3339
// timestamp. An empty value means no due date.
func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected 2006-01-02 or RFC 3339", value)
	}
	t = t.UTC()
	return &t, nil
}

// parseListParams reads the raw filter/sort/page query parameters. Malformed
// date values are rejected; malformed numeric values are left at zero for
// the query builder to clamp.
func parseListParams(r *http.Request) (store.TaskQueryParams, error) {
	query := r.URL.Query()

	params := store.TaskQueryParams{
		Status:   query.Get("status"),
		Keywords: query.Get("keywords"),
		SortBy:   query.Get("sortBy"),
		SortDir:  query.Get("sortDir"),
	}

	dueFrom, err := parseDueDate(query.Get("dueFrom"))
	if err != nil {
		return store.TaskQueryParams{}, fmt.Errorf("dueFrom: %w", err)
	}
	params.DueFrom = dueFrom

	dueTo, err := parseDueDate(query.Get("dueTo"))
	if err != nil {
		return store.TaskQueryParams{}, fmt.Errorf("dueTo: %w", err)
	}
	params.DueTo = dueTo

	if raw := query.Get("page"); raw != "" {
		params.Page, _ = strconv.Atoi(raw)
	}
	if raw := query.Get("pageSize"); raw != "" {
		params.PageSize, _ = strconv.Atoi(raw)
	}

	return params, nil
}
