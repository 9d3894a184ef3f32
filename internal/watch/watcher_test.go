package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_NewAndStop(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "boats.db"), 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	w.Stop()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "boats.db"), 0, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Calling Stop() multiple times should not panic
	w.Stop()
	w.Stop()
	w.Stop()
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "boats.db"), 0, nil)
	if err == nil {
		t.Fatal("Expected error for a missing database directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Error message %q should mention the missing directory", err.Error())
	}
}

func TestWatcher_ReportsDatabaseWrites(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "boats.db")
	if err := os.WriteFile(db, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(db, 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	var calls atomic.Int32
	changed := make(chan struct{}, 10)
	w.OnChange(func() {
		calls.Add(1)
		changed <- struct{}{}
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// A burst of writes is reported once
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(db, []byte("v2"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported for a database write")
	}

	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("OnChange called %d times for one burst, want 1", got)
	}
	if got := w.Changes(); got != 1 {
		t.Errorf("Changes() = %d, want 1", got)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "boats.db"), 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	var calls atomic.Int32
	w.OnChange(func() { calls.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("OnChange called %d times for an unrelated file, want 0", got)
	}
}

func TestWatcher_Journal(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "boats.db"), 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	changed := make(chan struct{}, 10)
	w.OnChange(func() { changed <- struct{}{} })
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "boats.db-journal"), []byte("j"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported for a journal write")
	}
}
