// Package store defines persistence abstractions for the task board:
// the TaskStore interface, the normalized task query plan, transaction
// helpers, and the sentinel errors shared by all store implementations.
package store
