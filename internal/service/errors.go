package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrTaskNotFound indicates that the task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskIDMismatch indicates that the id in an update payload does not
	// match the id of the task being updated.
	// API layer should map this to HTTP 400 Bad Request.
	ErrTaskIDMismatch = errors.New("task id in payload does not match target id")

	// ErrEmptyReorderBatch indicates a reorder request with no column entries.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyReorderBatch = errors.New("reorder batch cannot be empty")

	// ErrNoReorderIDs indicates a reorder request whose column entries
	// contain no task ids at all.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoReorderIDs = errors.New("reorder batch contains no task ids")
)
