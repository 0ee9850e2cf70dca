package storage

import "errors"

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is a synchronous key-value blob store. The planner persists each
// collection (tasks, activity log) as an independent blob under its own key,
// so the core stays storage-backend-agnostic and testable with MemoryStore.
type Store interface {
	// Get returns the blob stored under key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set writes the blob under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error
}
