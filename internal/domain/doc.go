// Package domain defines the core business entities of the task board:
// the Task entity, its closed status set, and the validation rules that
// keep invalid states unrepresentable.
package domain
