package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"studyplanner-backend/internal/task/domain"
	"studyplanner-backend/pkg/storage"
)

// Storage keys, kept from the original planner so existing exports and
// on-disk data stay readable.
const (
	tasksKey      = "studyPlannerTasks"
	activitiesKey = "studyPlannerActivities"
)

// kvTaskRepository implements TaskRepository over a key-value blob store.
type kvTaskRepository struct {
	store storage.Store
}

// NewKVTaskRepository creates a blob-store-backed TaskRepository.
func NewKVTaskRepository(store storage.Store) TaskRepository {
	return &kvTaskRepository{store: store}
}

func (r *kvTaskRepository) LoadTasks() []domain.Task {
	var tasks []domain.Task
	if !r.load(tasksKey, &tasks) {
		return nil
	}
	return tasks
}

func (r *kvTaskRepository) SaveTasks(tasks []domain.Task) error {
	return r.save(tasksKey, tasks)
}

func (r *kvTaskRepository) LoadActivities() []domain.ActivityEntry {
	var entries []domain.ActivityEntry
	if !r.load(activitiesKey, &entries) {
		return nil
	}
	return entries
}

func (r *kvTaskRepository) SaveActivities(entries []domain.ActivityEntry) error {
	return r.save(activitiesKey, entries)
}

// load reports whether v was populated. Missing keys are normal on first
// run; unparseable payloads are logged and treated as empty so the planner
// stays usable after corruption.
func (r *kvTaskRepository) load(key string, v interface{}) bool {
	data, err := r.store.Get(key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Printf("[TaskRepository] Could not read %s, starting empty: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[TaskRepository] Corrupt payload under %s, starting empty: %v", key, err)
		return false
	}
	return true
}

func (r *kvTaskRepository) save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorage, key, err)
	}
	if err := r.store.Set(key, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, key, err)
	}
	return nil
}
