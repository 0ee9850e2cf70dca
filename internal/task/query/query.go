// Package query holds the planner's read side: pure functions over a task
// snapshot. Nothing here mutates its input or reads the clock — callers
// pass "now" explicitly, which keeps every aggregate testable.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"studyplanner-backend/internal/task/domain"
)

// FilterAll is the sentinel that bypasses a status or priority filter.
const FilterAll = "all"

// Filter holds the task-list filter parameters. Empty values (or FilterAll
// for status/priority) match everything; independent filters AND together.
type Filter struct {
	Status   string
	Priority string
	Search   string
}

// Apply returns the tasks matching the filter, in input order.
func Apply(tasks []domain.Task, f Filter) []domain.Task {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []domain.Task
	for _, t := range tasks {
		if f.Status != "" && f.Status != FilterAll && string(t.Status) != f.Status {
			continue
		}
		if f.Priority != "" && f.Priority != FilterAll && string(t.Priority) != f.Priority {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesSearch is a case-insensitive substring match against title,
// description, subject, or any tag.
func matchesSearch(t domain.Task, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) ||
		strings.Contains(strings.ToLower(t.Description), search) ||
		strings.Contains(strings.ToLower(t.Subject), search) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// SortByDueDate returns a copy ordered by due date ascending; ties are
// broken by priority, high before low.
func SortByDueDate(tasks []domain.Task) []domain.Task {
	out := append([]domain.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Priority.Weight() > out[j].Priority.Weight()
	})
	return out
}

// ForDay returns the tasks due within the given calendar day (local time of
// the day argument), highest priority first.
func ForDay(tasks []domain.Task, day time.Time) []domain.Task {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []domain.Task
	for _, t := range tasks {
		if !t.DueDate.Before(dayStart) && t.DueDate.Before(dayEnd) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Weight() > out[j].Priority.Weight()
	})
	return out
}

// DefaultUpcomingLimit caps the dashboard's upcoming-task list.
const DefaultUpcomingLimit = 5

// Upcoming returns non-completed tasks due within the next seven days of
// now (overdue tasks included), soonest first, truncated to limit.
// A non-positive limit means DefaultUpcomingLimit.
func Upcoming(tasks []domain.Task, now time.Time, limit int) []domain.Task {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	horizon := now.Add(7 * 24 * time.Hour)

	var out []domain.Task
	for _, t := range tasks {
		if t.Status != domain.TaskStatusCompleted && !t.DueDate.After(horizon) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Overdue returns non-completed tasks whose due date has passed.
func Overdue(tasks []domain.Task, now time.Time) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Status != domain.TaskStatusCompleted && t.DueDate.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarizes the collection for the dashboard.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

// Summarize computes counts and the completion rate (0 when empty).
func Summarize(tasks []domain.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusCompleted:
			s.Completed++
		case domain.TaskStatusPending:
			s.Pending++
		case domain.TaskStatusInProgress:
			s.InProgress++
		}
		if t.Status != domain.TaskStatusCompleted && t.DueDate.Before(now) {
			s.Overdue++
		}
	}
	s.CompletionRate = rate(s.Completed, s.Total)
	return s
}

// SubjectStat aggregates completion per subject.
type SubjectStat struct {
	Subject        string `json:"subject"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

// SubjectStats groups tasks by non-empty subject, in order of first
// appearance.
func SubjectStats(tasks []domain.Task) []SubjectStat {
	index := make(map[string]int)
	var out []SubjectStat
	for _, t := range tasks {
		if t.Subject == "" {
			continue
		}
		i, ok := index[t.Subject]
		if !ok {
			i = len(out)
			index[t.Subject] = i
			out = append(out, SubjectStat{Subject: t.Subject})
		}
		out[i].Total++
		if t.Status == domain.TaskStatusCompleted {
			out[i].Completed++
		}
	}
	for i := range out {
		out[i].CompletionRate = rate(out[i].Completed, out[i].Total)
	}
	return out
}

// PriorityBreakdown counts tasks per priority for the analytics chart.
type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func CountByPriority(tasks []domain.Task) PriorityBreakdown {
	var b PriorityBreakdown
	for _, t := range tasks {
		switch t.Priority {
		case domain.PriorityHigh:
			b.High++
		case domain.PriorityMedium:
			b.Medium++
		case domain.PriorityLow:
			b.Low++
		}
	}
	return b
}

// WeeklyCompletion buckets completions into the seven days starting at
// weekStart (Monday..Sunday). A completion lands in bucket
// floor((completedAt-weekStart)/24h) when that offset is within the week.
func WeeklyCompletion(tasks []domain.Task, weekStart time.Time) [7]int {
	var buckets [7]int
	for _, t := range tasks {
		if t.CompletedAt == nil || t.CompletedAt.Before(weekStart) {
			continue
		}
		offset := int(t.CompletedAt.Sub(weekStart) / (24 * time.Hour))
		if offset < 7 {
			buckets[offset]++
		}
	}
	return buckets
}

// StudyStreak counts consecutive calendar days with at least one completed
// task, ending today or yesterday. A gap at both today and yesterday means
// the streak is over: 0.
func StudyStreak(tasks []domain.Task, today time.Time) int {
	days := make(map[string]bool)
	for _, t := range tasks {
		if t.CompletedAt != nil {
			days[dayKey(*t.CompletedAt)] = true
		}
	}

	cursor := today
	if !days[dayKey(cursor)] {
		cursor = today.AddDate(0, 0, -1)
		if !days[dayKey(cursor)] {
			return 0
		}
	}

	streak := 0
	for days[dayKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// WeekStart returns Monday 00:00:00 local time of the week containing t;
// for a Sunday that is the Monday six days prior.
func WeekStart(t time.Time) time.Time {
	offset := int(time.Monday - t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	monday := t.AddDate(0, 0, offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
