// Package watch notices when another process changes the boat database, so
// an open browser can drop its caches and refresh every boat.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// DefaultDebounce coalesces the burst of events a single SQLite commit
// produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a SQLite database file and its journals.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	logger   *logging.Logger

	mu       sync.RWMutex
	onChange func()
	changes  int

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the database at dbPath. The database's
// directory must exist.
func New(dbPath string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("database directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("database directory is not a directory: %s", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	base := filepath.Base(abs)
	return &Watcher{
		watcher: fw,
		dir:     dir,
		names: map[string]bool{
			base:              true,
			base + "-journal": true,
			base + "-wal":     true,
		},
		debounce: debounce,
		logger:   logging.OrNop(logger).WithComponent("watch"),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// OnChange sets the callback run after a debounced change. It runs on the
// watcher's goroutine; post to the UI loop from it.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	go w.watchLoop()
	w.logger.Debug("watching database", "dir", w.dir)
	return nil
}

// Stop stops the watcher and waits for its goroutine. It is safe to call
// more than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
}

// Done is closed once the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Changes returns how many debounced changes were reported.
func (w *Watcher) Changes() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.changes
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.names[filepath.Base(ev.Name)]
}

// watchLoop processes filesystem events
func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			w.fire()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.changes++
	fn := w.onChange
	w.mu.Unlock()

	w.logger.Debug("database changed")
	if fn != nil {
		fn()
	}
}
