package scheduler

import (
	"testing"
	"time"

	"studyplanner-backend/internal/notification"
	"studyplanner-backend/internal/task/domain"
)

type staticSnapshot []domain.Task

func (s staticSnapshot) ListTasks() []domain.Task { return s }

type captureNotifier struct {
	notices []notification.Notice
}

func (c *captureNotifier) Notify(n notification.Notice) {
	c.notices = append(c.notices, n)
}

func TestCheckReminders(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	tasks := staticSnapshot{
		{ID: "soon", Title: "Due soon", DueDate: now.Add(2 * time.Hour), Status: domain.TaskStatusPending},
		{ID: "overdue", Title: "Already late", DueDate: now.Add(-time.Hour), Status: domain.TaskStatusPending},
		{ID: "far", Title: "Next week", DueDate: now.Add(72 * time.Hour), Status: domain.TaskStatusPending},
		{ID: "done", Title: "Finished", DueDate: now.Add(2 * time.Hour), Status: domain.TaskStatusCompleted},
	}

	captured := &captureNotifier{}
	s := NewReminderScheduler(tasks, captured, time.Minute, 24*time.Hour)
	s.checkReminders(now)

	// Only the pending task inside the window fires: overdue tasks are the
	// overdue view's job, completed and far-out tasks stay quiet.
	if len(captured.notices) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(captured.notices))
	}
	if got := captured.notices[0].Message; got == "" || captured.notices[0].Level != "info" {
		t.Errorf("unexpected notice: %+v", captured.notices[0])
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewReminderScheduler(staticSnapshot{}, &captureNotifier{}, 0, 0)
	if s.interval != 30*time.Minute || s.window != 24*time.Hour {
		t.Errorf("wrong defaults: interval=%s window=%s", s.interval, s.window)
	}
}
