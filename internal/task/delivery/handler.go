package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"studyplanner-backend/internal/notification"
	"studyplanner-backend/internal/report"
	"studyplanner-backend/internal/task/domain"
	"studyplanner-backend/internal/task/query"
	"studyplanner-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
	exporter    *report.Exporter
	notifier    notification.Notifier
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase, exporter *report.Exporter, notifier notification.Notifier) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
		exporter:    exporter,
		notifier:    notifier,
	}
}

// GetTasks returns the filtered, sorted task list
// GET /api/tasks?status=pending&priority=high&search=algebra
func (h *TaskHandler) GetTasks(c *gin.Context) {
	filter := query.Filter{
		Status:   c.DefaultQuery("status", query.FilterAll),
		Priority: c.DefaultQuery("priority", query.FilterAll),
		Search:   c.Query("search"),
	}

	tasks := orEmpty(query.SortByDueDate(query.Apply(h.taskUsecase.ListTasks(), filter)))
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// SearchTasks returns fuzzy-ranked matches for a free-text query
// GET /api/tasks/search?q=algbra
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	q := c.Query("q")
	tasks := orEmpty(h.taskUsecase.SearchTasks(q))
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetUpcoming returns the next non-completed tasks due within a week
// GET /api/tasks/upcoming?limit=5
func (h *TaskHandler) GetUpcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	tasks := orEmpty(query.Upcoming(h.taskUsecase.ListTasks(), time.Now(), limit))
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetOverdue returns non-completed tasks past their due date
// GET /api/tasks/overdue
func (h *TaskHandler) GetOverdue(c *gin.Context) {
	tasks := orEmpty(query.Overdue(h.taskUsecase.ListTasks(), time.Now()))
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTask(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req usecase.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(req)
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		respondError(c, err)
		return
	}

	h.notifier.Notify(notification.Notice{Level: "success", Message: "Task created: " + task.Title})
	c.JSON(http.StatusCreated, mutationResponse(task, err))
}

// UpdateTask edits the provided fields of an existing task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var updates usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Param("id"), updates)
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		respondError(c, err)
		return
	}

	h.notifier.Notify(notification.Notice{Level: "success", Message: "Task updated: " + task.Title})
	c.JSON(http.StatusOK, mutationResponse(task, err))
}

// ToggleTaskStatus flips a task between pending and completed
// PATCH /api/tasks/:id/toggle
func (h *TaskHandler) ToggleTaskStatus(c *gin.Context) {
	task, err := h.taskUsecase.ToggleStatus(c.Param("id"))
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		respondError(c, err)
		return
	}

	message := "Task marked as pending"
	if task.Status == domain.TaskStatusCompleted {
		message = "Task completed!"
	}
	h.notifier.Notify(notification.Notice{Level: "success", Message: message})
	c.JSON(http.StatusOK, mutationResponse(task, err))
}

// DeleteTask deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	err := h.taskUsecase.DeleteTask(c.Param("id"))
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		respondError(c, err)
		return
	}

	h.notifier.Notify(notification.Notice{Level: "info", Message: "Task deleted"})
	resp := gin.H{"message": "Task deleted"}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetTimeline returns seven day buckets for the week containing the given
// date (or the current week), Monday through Sunday
// GET /api/timeline?week=2024-01-10
func (h *TaskHandler) GetTimeline(c *gin.Context) {
	anchor := time.Now()
	if w := c.Query("week"); w != "" {
		parsed, err := time.ParseInLocation("2006-01-02", w, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week must be YYYY-MM-DD"})
			return
		}
		anchor = parsed
	}

	weekStart := query.WeekStart(anchor)
	tasks := h.taskUsecase.ListTasks()

	type timelineDay struct {
		Date  string        `json:"date"`
		Tasks []domain.Task `json:"tasks"`
	}
	days := make([]timelineDay, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		days[i] = timelineDay{
			Date:  day.Format("2006-01-02"),
			Tasks: orEmpty(query.ForDay(tasks, day)),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"weekStart": weekStart.Format("2006-01-02"),
		"days":      days,
	})
}

// GetStats returns the dashboard counters
// GET /api/stats
func (h *TaskHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, query.Summarize(h.taskUsecase.ListTasks(), time.Now()))
}

// GetAnalytics returns completion rate, streak, and chart data
// GET /api/analytics
func (h *TaskHandler) GetAnalytics(c *gin.Context) {
	now := time.Now()
	tasks := h.taskUsecase.ListTasks()
	stats := query.Summarize(tasks, now)

	c.JSON(http.StatusOK, gin.H{
		"completionRate":   stats.CompletionRate,
		"studyStreak":      query.StudyStreak(tasks, now),
		"priorities":       query.CountByPriority(tasks),
		"weeklyCompletion": query.WeeklyCompletion(tasks, query.WeekStart(now)),
		"subjects":         query.SubjectStats(tasks),
	})
}

// GetActivities returns the most recent activity log entries
// GET /api/activities?limit=10
func (h *TaskHandler) GetActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries := h.taskUsecase.RecentActivities(limit)
	c.JSON(http.StatusOK, gin.H{"activities": entries})
}

// ExportData produces a backup document or a report
// GET /api/export?format=json|csv|pdf
func (h *TaskHandler) ExportData(c *gin.Context) {
	data, contentType, err := h.exporter.Export(c.Query("format"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="study-planner-backup-`+time.Now().Format("2006-01-02")+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// ImportData restores a backup document, replacing all current data
// POST /api/import
func (h *TaskHandler) ImportData(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.taskUsecase.Import(data)
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		respondError(c, err)
		return
	}

	h.notifier.Notify(notification.Notice{Level: "success", Message: "Data imported"})
	resp := gin.H{"message": "Data imported"}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// orEmpty returns an empty slice instead of nil so the JSON stays an array.
func orEmpty(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

// mutationResponse reports a successful mutation, attaching a warning when
// the in-memory change could not be persisted.
func mutationResponse(task *domain.Task, err error) gin.H {
	resp := gin.H{"task": task}
	if err != nil {
		resp["warning"] = err.Error()
	}
	return resp
}

// respondError maps the store's error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrImport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
