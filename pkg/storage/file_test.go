package storage

import (
	"errors"
	"testing"
)

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	t.Run("missing key", func(t *testing.T) {
		if _, err := store.Get("nope"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("set get round trip", func(t *testing.T) {
		if err := store.Set("tasks", []byte(`[{"id":"1"}]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get("tasks")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `[{"id":"1"}]` {
			t.Errorf("unexpected payload: %s", got)
		}
	})

	t.Run("set replaces previous value", func(t *testing.T) {
		store.Set("tasks", []byte("[]"))
		got, _ := store.Get("tasks")
		if string(got) != "[]" {
			t.Errorf("expected overwrite, got %s", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		store.Set("gone", []byte("x"))
		if err := store.Delete("gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get("gone"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
		// Deleting a missing key is not an error.
		if err := store.Delete("gone"); err != nil {
			t.Errorf("second delete errored: %v", err)
		}
	})
}

func TestMemoryStoreFailWrites(t *testing.T) {
	store := NewMemoryStore()
	store.Set("k", []byte("v"))

	boom := errors.New("boom")
	store.FailWrites = boom
	if err := store.Set("k", []byte("w")); !errors.Is(err, boom) {
		t.Errorf("expected injected failure, got %v", err)
	}

	// The previous value survives a failed write.
	got, err := store.Get("k")
	if err != nil || string(got) != "v" {
		t.Errorf("expected old value intact, got %s (%v)", got, err)
	}
}
