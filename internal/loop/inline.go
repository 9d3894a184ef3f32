package loop

import (
	"context"
	"sync"
)

// Inline runs work and its continuation synchronously in the caller's
// goroutine. It suits one-shot CLI commands where there is no UI loop.
type Inline struct{}

// Go runs work and then its continuation before returning.
func (Inline) Go(ctx context.Context, work Work) {
	if work == nil {
		return
	}
	if cont := work(ctx); cont != nil {
		cont()
	}
}

// Task is one unit of work held by a Manual executor.
type Task struct {
	ctx  context.Context
	work Work
	done bool
}

// Manual holds scheduled work until the caller resolves it. Tests use it to
// complete fetches in any order, which is how late responses are simulated.
type Manual struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewManual creates an empty manual executor.
func NewManual() *Manual {
	return &Manual{}
}

// Go records work without running it.
func (m *Manual) Go(ctx context.Context, work Work) {
	if work == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, &Task{ctx: ctx, work: work})
}

// Pending returns the number of unresolved tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Scheduled returns the total number of tasks ever scheduled.
func (m *Manual) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Resolve runs the i-th scheduled task (zero based, in scheduling order) and
// applies its continuation. It returns false if i is out of range or the
// task was already resolved.
func (m *Manual) Resolve(i int) bool {
	m.mu.Lock()
	if i < 0 || i >= len(m.tasks) || m.tasks[i].done {
		m.mu.Unlock()
		return false
	}
	t := m.tasks[i]
	t.done = true
	m.mu.Unlock()

	if cont := t.work(t.ctx); cont != nil {
		cont()
	}
	return true
}

// ResolveAll resolves pending tasks in scheduling order, including tasks
// scheduled by the continuations it runs. It returns how many it resolved.
func (m *Manual) ResolveAll() int {
	n := 0
	for i := 0; ; i++ {
		m.mu.Lock()
		total := len(m.tasks)
		m.mu.Unlock()
		if i >= total {
			return n
		}
		if m.Resolve(i) {
			n++
		}
	}
}
