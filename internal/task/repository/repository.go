package repository

import "studyplanner-backend/internal/task/domain"

// TaskRepository defines the persistence interface for the task store.
// The whole collection is written on every mutation; the store is small and
// the write is a single synchronous blob per key.
type TaskRepository interface {
	// LoadTasks rehydrates the task collection. Corrupt or missing data
	// degrades to an empty collection, never an error.
	LoadTasks() []domain.Task

	// SaveTasks persists the full collection.
	SaveTasks(tasks []domain.Task) error

	// LoadActivities rehydrates the activity log (most recent first).
	LoadActivities() []domain.ActivityEntry

	// SaveActivities persists the full activity log.
	SaveActivities(entries []domain.ActivityEntry) error
}
