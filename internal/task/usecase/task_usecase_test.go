package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"studyplanner-backend/internal/task/domain"
	"studyplanner-backend/internal/task/repository"
	"studyplanner-backend/pkg/storage"
)

func newTestStore(t *testing.T) (TaskUsecase, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	return NewTaskUsecase(repository.NewKVTaskRepository(mem)), mem
}

func mustCreate(t *testing.T, uc TaskUsecase, req CreateTaskRequest) *domain.Task {
	t.Helper()
	task, err := uc.CreateTask(req)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	uc, _ := newTestStore(t)

	task := mustCreate(t, uc, CreateTaskRequest{
		Title:         "  Read chapter 4  ",
		Description:   "sections 4.1-4.3",
		DueDate:       "2030-06-15T18:00:00Z",
		Priority:      "high",
		Subject:       "History",
		EstimatedTime: 2.5,
		Tags:          []string{"reading", " exam ", ""},
	})

	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.Title != "Read chapter 4" {
		t.Errorf("title not trimmed: %q", task.Title)
	}
	if task.Status != domain.TaskStatusPending || task.CompletedAt != nil {
		t.Errorf("new task must be pending with no completion: %+v", task)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "reading" || task.Tags[1] != "exam" {
		t.Errorf("tags not cleaned: %v", task.Tags)
	}
	if task.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}

	list := uc.ListTasks()
	if len(list) != 1 || list[0].ID != task.ID {
		t.Fatalf("expected exactly the new task in the list, got %v", list)
	}

	t.Run("ids are unique", func(t *testing.T) {
		other := mustCreate(t, uc, CreateTaskRequest{Title: "Second", DueDate: "2030-06-16"})
		if other.ID == task.ID {
			t.Error("duplicate task id")
		}
	})
}

func TestCreateTaskValidation(t *testing.T) {
	uc, _ := newTestStore(t)

	cases := []struct {
		name string
		req  CreateTaskRequest
	}{
		{"empty title", CreateTaskRequest{Title: "   ", DueDate: "2030-06-15"}},
		{"missing due date", CreateTaskRequest{Title: "x"}},
		{"garbage due date", CreateTaskRequest{Title: "x", DueDate: "not-a-date"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.CreateTask(tc.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if len(uc.ListTasks()) != 0 {
		t.Error("failed creates must not leave tasks behind")
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	uc, _ := newTestStore(t)

	t.Run("date-only due becomes end of day", func(t *testing.T) {
		task := mustCreate(t, uc, CreateTaskRequest{Title: "quick", DueDate: "2030-06-15"})
		want := time.Date(2030, 6, 15, 23, 59, 59, 0, time.Local)
		if !task.DueDate.Equal(want) {
			t.Errorf("expected %v, got %v", want, task.DueDate)
		}
	})

	t.Run("estimated time defaults to 1", func(t *testing.T) {
		task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15"})
		if task.EstimatedTime != 1 {
			t.Errorf("expected default 1h, got %g", task.EstimatedTime)
		}
	})

	t.Run("unknown priority defaults to medium", func(t *testing.T) {
		task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15", Priority: "urgent"})
		if task.Priority != domain.PriorityMedium {
			t.Errorf("expected medium, got %s", task.Priority)
		}
	})
}

func TestToggleStatus(t *testing.T) {
	uc, _ := newTestStore(t)
	task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15"})

	done, err := uc.ToggleStatus(task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if done.Status != domain.TaskStatusCompleted || done.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", done)
	}

	// Toggling again restores pending; the completion instant is
	// deliberately discarded, not archived.
	reopened, err := uc.ToggleStatus(task.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if reopened.Status != domain.TaskStatusPending || reopened.CompletedAt != nil {
		t.Fatalf("expected pending with nil completedAt, got %+v", reopened)
	}

	t.Run("unknown id", func(t *testing.T) {
		if _, err := uc.ToggleStatus("nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCompletionInvariant(t *testing.T) {
	// completedAt is non-nil iff status == completed, after every operation.
	uc, _ := newTestStore(t)
	task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15"})

	check := func(stage string) {
		t.Helper()
		for _, tk := range uc.ListTasks() {
			if (tk.CompletedAt != nil) != (tk.Status == domain.TaskStatusCompleted) {
				t.Errorf("%s: invariant broken: status=%s completedAt=%v", stage, tk.Status, tk.CompletedAt)
			}
		}
	}

	check("after create")
	uc.ToggleStatus(task.ID)
	check("after complete")
	title := "renamed"
	uc.UpdateTask(task.ID, TaskUpdateRequest{Title: &title})
	check("after update")
	uc.ToggleStatus(task.ID)
	check("after reopen")
}

func TestUpdateTask(t *testing.T) {
	uc, _ := newTestStore(t)
	task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15", Priority: "low"})
	uc.ToggleStatus(task.ID)

	title := "renamed"
	prio := "high"
	updated, err := uc.UpdateTask(task.ID, TaskUpdateRequest{Title: &title, Priority: &prio})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "renamed" || updated.Priority != domain.PriorityHigh {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Status != domain.TaskStatusCompleted || updated.CompletedAt == nil {
		t.Error("update must not touch status or completedAt")
	}

	t.Run("empty title rejected", func(t *testing.T) {
		bad := "  "
		if _, err := uc.UpdateTask(task.ID, TaskUpdateRequest{Title: &bad}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		got, _ := uc.GetTask(task.ID)
		if got.Title != "renamed" {
			t.Error("failed update must not change the task")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := uc.UpdateTask("nope", TaskUpdateRequest{}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	uc, _ := newTestStore(t)
	a := mustCreate(t, uc, CreateTaskRequest{Title: "a", DueDate: "2030-06-15"})
	b := mustCreate(t, uc, CreateTaskRequest{Title: "b", DueDate: "2030-06-16"})

	if err := uc.DeleteTask(a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	list := uc.ListTasks()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only task b left, got %v", list)
	}

	t.Run("unknown id leaves the collection unchanged", func(t *testing.T) {
		if err := uc.DeleteTask(a.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if len(uc.ListTasks()) != 1 {
			t.Error("collection changed on failed delete")
		}
	})
}

func TestActivityLog(t *testing.T) {
	uc, _ := newTestStore(t)
	task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15"})
	uc.ToggleStatus(task.ID)

	entries := uc.RecentActivities(10)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Kind != domain.ActivityCompleted || entries[1].Kind != domain.ActivityCreated {
		t.Errorf("wrong order/kinds: %v %v", entries[0].Kind, entries[1].Kind)
	}

	t.Run("capped at 50", func(t *testing.T) {
		for i := 0; i < 60; i++ {
			mustCreate(t, uc, CreateTaskRequest{Title: fmt.Sprintf("t%d", i), DueDate: "2030-06-15"})
		}
		if got := len(uc.RecentActivities(0)); got != domain.MaxActivityEntries {
			t.Errorf("expected %d entries, got %d", domain.MaxActivityEntries, got)
		}
	})
}

func TestStorageFailureIsNonFatal(t *testing.T) {
	uc, mem := newTestStore(t)
	mem.FailWrites = errors.New("quota exceeded")

	task, err := uc.CreateTask(CreateTaskRequest{Title: "x", DueDate: "2030-06-15"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if task == nil {
		t.Fatal("expected the created task despite the storage failure")
	}
	// The in-memory state stays correct for the session.
	if len(uc.ListTasks()) != 1 {
		t.Error("task lost after storage failure")
	}

	mem.FailWrites = nil
	if _, err := uc.ToggleStatus(task.ID); err != nil {
		t.Errorf("store unusable after recovered failure: %v", err)
	}
}

func TestCorruptPayloadDegradesToEmpty(t *testing.T) {
	mem := storage.NewMemoryStore()
	mem.Set("studyPlannerTasks", []byte("{not json"))
	mem.Set("studyPlannerActivities", []byte("also garbage"))

	uc := NewTaskUsecase(repository.NewKVTaskRepository(mem))
	if len(uc.ListTasks()) != 0 {
		t.Error("corrupt tasks blob must load as empty")
	}
	if len(uc.RecentActivities(0)) != 0 {
		t.Error("corrupt activity blob must load as empty")
	}

	// Still usable after corruption.
	if _, err := uc.CreateTask(CreateTaskRequest{Title: "x", DueDate: "2030-06-15"}); err != nil {
		t.Errorf("store unusable after corruption: %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := storage.NewMemoryStore()
	uc := NewTaskUsecase(repository.NewKVTaskRepository(mem))
	task := mustCreate(t, uc, CreateTaskRequest{Title: "x", DueDate: "2030-06-15T10:00:00Z", Tags: []string{"a"}})
	uc.ToggleStatus(task.ID)

	// A fresh store over the same blobs sees the same data.
	reloaded := NewTaskUsecase(repository.NewKVTaskRepository(mem))
	list := reloaded.ListTasks()
	if len(list) != 1 {
		t.Fatalf("expected 1 task after reload, got %d", len(list))
	}
	got := list[0]
	if got.ID != task.ID || got.Title != task.Title || !got.DueDate.Equal(task.DueDate) {
		t.Errorf("reloaded task differs: %+v", got)
	}
	if got.Status != domain.TaskStatusCompleted || got.CompletedAt == nil {
		t.Errorf("completion state lost on reload: %+v", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	uc, _ := newTestStore(t)
	a := mustCreate(t, uc, CreateTaskRequest{Title: "a", DueDate: "2030-06-15T10:00:00Z", Subject: "Math", Tags: []string{"x", "y"}})
	mustCreate(t, uc, CreateTaskRequest{Title: "b", DueDate: "2030-06-16"})
	uc.ToggleStatus(a.ID)

	doc, err := json.Marshal(uc.Export())
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}

	other, _ := newTestStore(t)
	if err := other.Import(doc); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	want := uc.ListTasks()
	got := other.ListTasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Title != w.Title || g.Subject != w.Subject ||
			!g.DueDate.Equal(w.DueDate) || g.Priority != w.Priority ||
			g.Status != w.Status || len(g.Tags) != len(w.Tags) {
			t.Errorf("task %d differs after round trip:\nwant %+v\ngot  %+v", i, w, g)
		}
		if (g.CompletedAt == nil) != (w.CompletedAt == nil) {
			t.Errorf("task %d completion presence differs", i)
		}
	}

	if len(other.RecentActivities(0)) != len(uc.RecentActivities(0)) {
		t.Error("activity log not carried over")
	}
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	uc, _ := newTestStore(t)
	existing := mustCreate(t, uc, CreateTaskRequest{Title: "keep me", DueDate: "2030-06-15"})

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", "nope"},
		{"tasks missing", `{"activities": []}`},
		{"tasks not an array", `{"tasks": 5}`},
		{"bad timestamp", `{"tasks": [{"id":"1","title":"x","dueDate":"yesterday","priority":"low","status":"pending","createdAt":"2030-01-01T00:00:00Z","completedAt":null}]}`},
		{"untitled record", `{"tasks": [{"id":"1","title":"","dueDate":"2030-01-02T00:00:00Z","priority":"low","status":"pending","createdAt":"2030-01-01T00:00:00Z","completedAt":null}]}`},
		{"completion contradicts status", `{"tasks": [{"id":"1","title":"x","dueDate":"2030-01-02T00:00:00Z","priority":"low","status":"completed","createdAt":"2030-01-01T00:00:00Z","completedAt":null}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := uc.Import([]byte(tc.doc)); !errors.Is(err, domain.ErrImport) {
				t.Errorf("expected ErrImport, got %v", err)
			}
			list := uc.ListTasks()
			if len(list) != 1 || list[0].ID != existing.ID {
				t.Error("failed import must leave existing data untouched")
			}
		})
	}
}

func TestReplaceAll(t *testing.T) {
	uc, _ := newTestStore(t)
	mustCreate(t, uc, CreateTaskRequest{Title: "old", DueDate: "2030-06-15"})

	due := time.Date(2030, 7, 1, 12, 0, 0, 0, time.UTC)
	batch := []domain.Task{
		{ID: "n1", Title: "new one", DueDate: due, Priority: domain.PriorityLow, Status: domain.TaskStatusPending},
		{ID: "n2", Title: "new two", DueDate: due, Priority: domain.PriorityHigh, Status: domain.TaskStatusPending},
	}
	if err := uc.ReplaceAll(batch); err != nil {
		t.Fatalf("replaceAll failed: %v", err)
	}
	list := uc.ListTasks()
	if len(list) != 2 || list[0].ID != "n1" {
		t.Fatalf("expected the new batch, got %v", list)
	}

	t.Run("whole batch rejected on one bad record", func(t *testing.T) {
		bad := append(batch, domain.Task{ID: "n3", Title: "", DueDate: due, Status: domain.TaskStatusPending})
		if err := uc.ReplaceAll(bad); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if len(uc.ListTasks()) != 2 {
			t.Error("failed replaceAll must not change the collection")
		}
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		dup := []domain.Task{batch[0], batch[0]}
		if err := uc.ReplaceAll(dup); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestSearchTasks(t *testing.T) {
	uc, _ := newTestStore(t)
	mustCreate(t, uc, CreateTaskRequest{Title: "Algebra homework", DueDate: "2030-06-15", Subject: "Math"})
	mustCreate(t, uc, CreateTaskRequest{Title: "Read novel", DueDate: "2030-06-15", Description: "algebra mentioned in passing"})
	mustCreate(t, uc, CreateTaskRequest{Title: "Chemistry lab", DueDate: "2030-06-15"})

	got := uc.SearchTasks("algebra")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// The title hit outranks the description hit.
	if !strings.Contains(got[0].Title, "Algebra") {
		t.Errorf("expected the title match first, got %q", got[0].Title)
	}

	t.Run("typo still matches", func(t *testing.T) {
		if got := uc.SearchTasks("algbra"); len(got) == 0 {
			t.Error("expected a fuzzy match for a one-letter typo")
		}
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		if got := uc.SearchTasks("  "); len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})
}
