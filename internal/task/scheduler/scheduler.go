package scheduler

import (
	"fmt"
	"log"
	"time"

	"studyplanner-backend/internal/notification"
	"studyplanner-backend/internal/task/domain"
)

// Snapshotter is the read-only slice of the task store the scheduler needs.
type Snapshotter interface {
	ListTasks() []domain.Task
}

// ReminderScheduler periodically scans the task snapshot and raises a
// notice for every non-completed task coming due. It only reads; it never
// mutates store state.
type ReminderScheduler struct {
	store    Snapshotter
	notifier notification.Notifier
	interval time.Duration
	window   time.Duration
	stopChan chan struct{}
}

// NewReminderScheduler creates a scheduler. interval is how often to scan,
// window how far ahead of the due date a reminder fires.
func NewReminderScheduler(store Snapshotter, notifier notification.Notifier, interval, window time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ReminderScheduler{
		store:    store,
		notifier: notifier,
		interval: interval,
		window:   window,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop.
func (s *ReminderScheduler) Start() {
	log.Printf("[ReminderScheduler] Starting reminder scan (interval: %s, window: %s)", s.interval, s.window)

	go func() {
		// Run once shortly after start, like the original planner.
		s.checkReminders(time.Now())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkReminders(time.Now())
			case <-s.stopChan:
				log.Println("[ReminderScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *ReminderScheduler) Stop() {
	close(s.stopChan)
}

// checkReminders raises a notice for each non-completed task due within the
// reminder window.
func (s *ReminderScheduler) checkReminders(now time.Time) {
	due := 0
	for _, t := range s.store.ListTasks() {
		if t.Status == domain.TaskStatusCompleted {
			continue
		}
		until := t.DueDate.Sub(now)
		if until > 0 && until <= s.window {
			s.notifier.Notify(notification.Notice{
				Level:   "info",
				Message: fmt.Sprintf("Reminder: %q is due %s", t.Title, t.DueDate.Format("Jan 2 15:04")),
			})
			due++
		}
	}
	if due > 0 {
		log.Printf("[ReminderScheduler] %d task(s) coming due within %s", due, s.window)
	}
}
