// Package service contains the application-specific use cases of the task
// board. It orchestrates domain objects and repositories (defined in
// internal/store) to fulfill the board's operations: CRUD over tasks,
// filtered/sorted/paginated listings, and the order management behind
// drag-and-drop reordering.
//
// The service layer owns the transactional boundaries: operations that
// touch order keys (create, status-changing updates, bulk reorder) run
// inside a single database transaction so the board is never visible in a
// half-updated state. It depends on domain entities and repository
// interfaces, never on specific infrastructure implementations.
package service
