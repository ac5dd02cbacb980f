// Package postgres contains the PostgreSQL implementation of the task
// store, including the SQL query plans for filtered, sorted, paginated
// listings and the row updates behind board reordering.
package postgres
