package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"studyplanner-backend/internal/task/domain"
	"studyplanner-backend/internal/task/repository"
	"studyplanner-backend/pkg/fuzzy"

	"github.com/google/uuid"
)

// taskUsecase implements TaskUsecase. All access goes through the mutex;
// every mutation runs to completion (validate, mutate, log, persist) before
// the next one is admitted.
type taskUsecase struct {
	mu         sync.Mutex
	taskRepo   repository.TaskRepository
	tasks      []domain.Task
	activities []domain.ActivityEntry
}

// NewTaskUsecase rehydrates the store from the repository.
func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	u := &taskUsecase{
		taskRepo:   taskRepo,
		tasks:      taskRepo.LoadTasks(),
		activities: taskRepo.LoadActivities(),
	}
	log.Printf("[TaskStore] Loaded %d tasks, %d activity entries", len(u.tasks), len(u.activities))
	return u
}

func (u *taskUsecase) CreateTask(req CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	estimated := req.EstimatedTime
	if estimated <= 0 {
		estimated = 1
	}

	task := domain.Task{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		DueDate:       due,
		Priority:      parsePriority(req.Priority),
		Subject:       strings.TrimSpace(req.Subject),
		EstimatedTime: estimated,
		Tags:          cleanTags(req.Tags),
		Status:        domain.TaskStatusPending,
		CreatedAt:     time.Now(),
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.tasks = append(u.tasks, task)
	u.appendActivity(domain.ActivityCreated, "Created task: "+task.Title)
	out := task.Clone()
	return &out, u.persist()
}

func (u *taskUsecase) GetTask(id string) (*domain.Task, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t, err := u.find(id)
	if err != nil {
		return nil, err
	}
	out := t.Clone()
	return &out, nil
}

func (u *taskUsecase) UpdateTask(id string, updates TaskUpdateRequest) (*domain.Task, error) {
	// Parse and validate before touching state so a bad patch has no
	// partial effect.
	var title *string
	if updates.Title != nil {
		trimmed := strings.TrimSpace(*updates.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		title = &trimmed
	}
	var due *time.Time
	if updates.DueDate != nil {
		parsed, err := parseDueDate(*updates.DueDate)
		if err != nil {
			return nil, err
		}
		due = &parsed
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	task, err := u.find(id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		task.Title = *title
	}
	if updates.Description != nil {
		task.Description = strings.TrimSpace(*updates.Description)
	}
	if due != nil {
		task.DueDate = *due
	}
	if updates.Priority != nil {
		task.Priority = parsePriority(*updates.Priority)
	}
	if updates.Subject != nil {
		task.Subject = strings.TrimSpace(*updates.Subject)
	}
	if updates.EstimatedTime != nil && *updates.EstimatedTime > 0 {
		task.EstimatedTime = *updates.EstimatedTime
	}
	if updates.Tags != nil {
		task.Tags = cleanTags(*updates.Tags)
	}

	u.appendActivity(domain.ActivityUpdated, "Updated task: "+task.Title)
	out := task.Clone()
	return &out, u.persist()
}

func (u *taskUsecase) ToggleStatus(id string) (*domain.Task, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	task, err := u.find(id)
	if err != nil {
		return nil, err
	}

	if task.Status == domain.TaskStatusCompleted {
		// Reopening loses the completion instant; only the pending state
		// comes back.
		task.Status = domain.TaskStatusPending
		task.CompletedAt = nil
		u.appendActivity(domain.ActivityUpdated, "Reopened task: "+task.Title)
	} else {
		now := time.Now()
		task.Status = domain.TaskStatusCompleted
		task.CompletedAt = &now
		u.appendActivity(domain.ActivityCompleted, "Completed task: "+task.Title)
	}

	out := task.Clone()
	return &out, u.persist()
}

func (u *taskUsecase) DeleteTask(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, t := range u.tasks {
		if t.ID == id {
			u.tasks = append(u.tasks[:i], u.tasks[i+1:]...)
			u.appendActivity(domain.ActivityUpdated, "Deleted task: "+t.Title)
			return u.persist()
		}
	}
	return domain.ErrNotFound
}

func (u *taskUsecase) ListTasks() []domain.Task {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snapshot()
}

func (u *taskUsecase) ReplaceAll(tasks []domain.Task) error {
	validated, err := validateBatch(tasks)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.tasks = validated
	return u.persist()
}

func (u *taskUsecase) SearchTasks(q string) []domain.Task {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	type scored struct {
		task  domain.Task
		score float64
	}
	var matches []scored
	for _, t := range u.ListTasks() {
		score := fuzzy.ScoreTask(q, t.Title, t.Subject, t.Description, t.Tags)
		if score > 0 {
			matches = append(matches, scored{task: t, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]domain.Task, len(matches))
	for i, m := range matches {
		out[i] = m.task
	}
	return out
}

func (u *taskUsecase) RecentActivities(limit int) []domain.ActivityEntry {
	u.mu.Lock()
	defer u.mu.Unlock()
	if limit <= 0 || limit > len(u.activities) {
		limit = len(u.activities)
	}
	return append([]domain.ActivityEntry(nil), u.activities[:limit]...)
}

func (u *taskUsecase) Export() domain.Backup {
	u.mu.Lock()
	defer u.mu.Unlock()
	return domain.Backup{
		Tasks:      u.snapshot(),
		Activities: append([]domain.ActivityEntry(nil), u.activities...),
		ExportDate: time.Now(),
	}
}

func (u *taskUsecase) Import(data []byte) error {
	// Tasks is a pointer so a document without the field is told apart
	// from an empty collection.
	var doc struct {
		Tasks      *[]domain.Task         `json:"tasks"`
		Activities []domain.ActivityEntry `json:"activities"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImport, err)
	}
	if doc.Tasks == nil {
		return fmt.Errorf("%w: tasks array is missing", domain.ErrImport)
	}

	validated, err := validateBatch(*doc.Tasks)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImport, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.tasks = validated
	if doc.Activities != nil {
		if len(doc.Activities) > domain.MaxActivityEntries {
			doc.Activities = doc.Activities[:domain.MaxActivityEntries]
		}
		u.activities = doc.Activities
	}
	return u.persist()
}

// find returns a pointer into the live collection; callers hold the mutex.
func (u *taskUsecase) find(id string) (*domain.Task, error) {
	for i := range u.tasks {
		if u.tasks[i].ID == id {
			return &u.tasks[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (u *taskUsecase) snapshot() []domain.Task {
	out := make([]domain.Task, len(u.tasks))
	for i, t := range u.tasks {
		out[i] = t.Clone()
	}
	return out
}

// appendActivity prepends an entry (newest first) and evicts past the cap.
func (u *taskUsecase) appendActivity(kind domain.ActivityKind, message string) {
	entry := domain.ActivityEntry{Kind: kind, Message: message, Timestamp: time.Now()}
	u.activities = append([]domain.ActivityEntry{entry}, u.activities...)
	if len(u.activities) > domain.MaxActivityEntries {
		u.activities = u.activities[:domain.MaxActivityEntries]
	}
}

// persist writes both blobs. Failures are surfaced but the in-memory state
// stays authoritative for the session.
func (u *taskUsecase) persist() error {
	if err := u.taskRepo.SaveTasks(u.tasks); err != nil {
		log.Printf("[TaskStore] Could not save tasks: %v", err)
		return err
	}
	if err := u.taskRepo.SaveActivities(u.activities); err != nil {
		log.Printf("[TaskStore] Could not save activities: %v", err)
		return err
	}
	return nil
}

// validateBatch applies create-level validation to every record and returns
// a defensive copy. Any invalid record rejects the whole batch.
func validateBatch(tasks []domain.Task) ([]domain.Task, error) {
	validated := make([]domain.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: task %d has no title", domain.ErrValidation, i)
		}
		if t.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: task %d has no due date", domain.ErrValidation, i)
		}
		if (t.CompletedAt != nil) != (t.Status == domain.TaskStatusCompleted) {
			return nil, fmt.Errorf("%w: task %d completion timestamp contradicts status %q", domain.ErrValidation, i, t.Status)
		}
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate task id %q", domain.ErrValidation, t.ID)
		}
		seen[t.ID] = true
		if t.Priority.Weight() == 0 {
			t.Priority = domain.PriorityMedium
		}
		if t.EstimatedTime <= 0 {
			t.EstimatedTime = 1
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		validated = append(validated, t.Clone())
	}
	return validated, nil
}

func parsePriority(p string) domain.Priority {
	switch p {
	case "high":
		return domain.PriorityHigh
	case "low":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

// parseDueDate accepts RFC 3339, a datetime-local value, or a bare date.
// A bare date means end of that day, matching the quick-add form.
func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: due date is required", domain.ErrValidation)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second), nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse due date %q", domain.ErrValidation, s)
}

func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
