package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the ordering weight used when breaking due-date ties.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// TaskStatus represents the current state of a task.
//
// "in-progress" is a reserved value: filters, stats and import accept it,
// but no operation assigns it — the toggle cycle is pending ⇄ completed.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task represents a single study item.
// JSON field names match the planner's backup/export document format.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       time.Time  `json:"dueDate"`
	Priority      Priority   `json:"priority"`
	Subject       string     `json:"subject"`
	EstimatedTime float64    `json:"estimatedTime"`
	Tags          []string   `json:"tags"`
	Status        TaskStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// Clone returns a deep copy so callers never share store-owned state.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// ActivityKind classifies an audit log entry.
type ActivityKind string

const (
	ActivityCreated   ActivityKind = "created"
	ActivityUpdated   ActivityKind = "updated"
	ActivityCompleted ActivityKind = "completed"
)

// ActivityEntry is an append-only audit record of a task lifecycle event.
type ActivityEntry struct {
	Kind      ActivityKind `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// MaxActivityEntries caps the activity log; the oldest entries are evicted.
const MaxActivityEntries = 50

// Backup is the export/import document exchanged with the frontend.
type Backup struct {
	Tasks      []Task          `json:"tasks"`
	Activities []ActivityEntry `json:"activities"`
	ExportDate time.Time       `json:"exportDate"`
}
