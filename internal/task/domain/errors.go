package domain

import "errors"

// Error taxonomy for the task store. Callers classify with errors.Is and
// the delivery layer maps each class to an HTTP status.
var (
	// ErrNotFound means an operation referenced a nonexistent task id.
	ErrNotFound = errors.New("task not found")

	// ErrValidation means a required field was missing or invalid.
	ErrValidation = errors.New("validation failed")

	// ErrStorage means persisting the collection failed. Non-fatal: the
	// in-memory state is still correct for the rest of the session.
	ErrStorage = errors.New("storage failure")

	// ErrImport means the import document was malformed.
	ErrImport = errors.New("invalid import document")
)
