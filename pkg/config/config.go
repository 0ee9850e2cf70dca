package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DataDir          string
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	reminderInterval := 30 * time.Minute
	if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			reminderInterval = parsed
		}
	}

	reminderWindow := 24 * time.Hour
	if v := os.Getenv("REMINDER_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			reminderWindow = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		ReminderInterval: reminderInterval,
		ReminderWindow:   reminderWindow,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
