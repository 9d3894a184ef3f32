// Package testutil provides testing utilities for boatrental tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Josh-Grafman/boatrental/internal/store"
)

// SetupEmptyStore opens a migrated, empty store in a temp directory. The
// store is closed when the test completes.
func SetupEmptyStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "boats.db"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// SetupTestStore opens a store holding the bundled fleet.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s := SetupEmptyStore(t)
	fleet, err := store.DefaultFleet()
	if err != nil {
		t.Fatalf("failed to load bundled fleet: %v", err)
	}
	if _, err := s.Seed(context.Background(), fleet, false); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return s
}

// SetupConfigDir points XDG_CONFIG_HOME at a temp directory and returns
// the boatrental config directory inside it. The directory itself is not
// created.
func SetupConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "boatrental")
}

// WriteFile writes content to name inside a fresh temp directory and
// returns the file's path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
