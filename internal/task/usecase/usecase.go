package usecase

import "studyplanner-backend/internal/task/domain"

// TaskUsecase owns the mutable task collection and the activity log.
// Mutators persist synchronously; a storage failure is returned wrapped in
// domain.ErrStorage while the in-memory mutation is kept, so the session
// stays usable without durability.
type TaskUsecase interface {
	// CreateTask validates the request and adds a pending task.
	CreateTask(req CreateTaskRequest) (*domain.Task, error)

	// GetTask returns a copy of the task, or domain.ErrNotFound.
	GetTask(id string) (*domain.Task, error)

	// UpdateTask replaces only the provided fields. Status and the
	// completion timestamp are never touched here; those go through
	// ToggleStatus.
	UpdateTask(id string, updates TaskUpdateRequest) (*domain.Task, error)

	// ToggleStatus flips a task between pending and completed, setting or
	// clearing the completion timestamp.
	ToggleStatus(id string) (*domain.Task, error)

	// DeleteTask removes the task from the collection.
	DeleteTask(id string) error

	// ListTasks returns a snapshot of all tasks in insertion order.
	ListTasks() []domain.Task

	// ReplaceAll swaps in a new collection. The whole batch is validated
	// before anything becomes visible.
	ReplaceAll(tasks []domain.Task) error

	// SearchTasks returns tasks fuzzy-matching the query, best match first.
	SearchTasks(q string) []domain.Task

	// RecentActivities returns up to limit log entries, newest first.
	RecentActivities(limit int) []domain.ActivityEntry

	// Export produces the backup document.
	Export() domain.Backup

	// Import consumes a backup document produced by Export. A document
	// without a tasks array fails with domain.ErrImport and leaves the
	// existing data untouched.
	Import(data []byte) error
}

// CreateTaskRequest carries the user-entered fields for a new task.
// DueDate accepts an RFC 3339 timestamp, a datetime-local value
// (2006-01-02T15:04), or a bare date — the quick-add form sends a date,
// which is normalized to 23:59:59 local time of that day.
type CreateTaskRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	DueDate       string   `json:"dueDate"`
	Priority      string   `json:"priority"`
	Subject       string   `json:"subject"`
	EstimatedTime float64  `json:"estimatedTime"`
	Tags          []string `json:"tags"`
}

// TaskUpdateRequest represents the fields that can be edited in place.
type TaskUpdateRequest struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	DueDate       *string   `json:"dueDate,omitempty"`
	Priority      *string   `json:"priority,omitempty"`
	Subject       *string   `json:"subject,omitempty"`
	EstimatedTime *float64  `json:"estimatedTime,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
}
