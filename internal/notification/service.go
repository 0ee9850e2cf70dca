package notification

import "log"

// Notice is a short, non-blocking user-facing message.
type Notice struct {
	Level   string // "success", "info", "error"
	Message string
}

// Notifier delivers notices to the user. The reminder scheduler and the
// delivery layer both write through this interface so the transport can be
// swapped without touching the core.
type Notifier interface {
	Notify(n Notice)
}

// LogNotifier writes notices to the process log. It is the default
// transport for a local, single-user planner.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Notify(n Notice) {
	log.Printf("[Notification] %s: %s", n.Level, n.Message)
}
