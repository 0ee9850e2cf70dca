package main

import (
	"log"

	api "studyplanner-backend/cmd/api"
	"studyplanner-backend/internal/notification"
	taskRepo "studyplanner-backend/internal/task/repository"
	taskScheduler "studyplanner-backend/internal/task/scheduler"
	taskUsecase "studyplanner-backend/internal/task/usecase"
	"studyplanner-backend/pkg/config"
	"studyplanner-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the local blob store
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open data directory:", err)
	}

	// Initialize repository and task store (dependency injection)
	repo := taskRepo.NewKVTaskRepository(store)
	taskUc := taskUsecase.NewTaskUsecase(repo)

	// Reminder scan: reads the task snapshot on a timer, never mutates
	notifier := notification.NewLogNotifier()
	reminders := taskScheduler.NewReminderScheduler(taskUc, notifier, cfg.ReminderInterval, cfg.ReminderWindow)
	reminders.Start()
	defer reminders.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(taskUc, notifier, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
