// Package loop provides the executors that run fetch work off the UI loop
// and apply its results back on it.
//
// Views never touch their state from a worker goroutine. A view hands the
// executor a [Work] function; the work performs the blocking call and
// returns a continuation, and the executor runs that continuation on the
// loop that owns the view. The generation check that implements
// last-request-wins lives inside the continuation.
package loop

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// Work performs a blocking operation and returns the continuation to apply
// on the loop. A nil continuation means there is nothing to apply.
type Work func(ctx context.Context) func()

// Executor schedules work and applies its continuation on the owning loop.
// Go never blocks on the work itself.
type Executor interface {
	Go(ctx context.Context, work Work)
}

// Loop is a goroutine-serialized executor. Posted functions and work
// continuations run one at a time, in arrival order, on the goroutine that
// calls Run.
type Loop struct {
	logger *logging.Logger
	wake   chan struct{}

	mu      sync.Mutex
	queue   []func()
	closed  bool
	pending sync.WaitGroup
}

// New creates an empty loop.
func New(logger *logging.Logger) *Loop {
	return &Loop{
		logger: logging.OrNop(logger).WithComponent("loop"),
		wake:   make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop. It never blocks, so it is safe to call
// from a function already running on the loop. It returns false if the loop
// is closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending.Add(1)
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Go runs work on its own goroutine and posts the continuation to the loop.
func (l *Loop) Go(ctx context.Context, work Work) {
	if work == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.pending.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.pending.Done()
		if cont := l.runWork(ctx, work); cont != nil {
			l.Post(cont)
		}
	}()
}

func (l *Loop) runWork(ctx context.Context, work Work) (cont func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("work panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			cont = nil
		}
	}()
	return work(ctx)
}

// Run applies queued functions until ctx is done. It must be called from a
// single goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.flush()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Drain applies queued functions until no work is outstanding and the queue
// is empty. It is meant for callers that own the loop goroutine and want to
// settle it, such as CLI commands and tests.
func (l *Loop) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(done)
	}()

	for {
		l.flush()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			l.flush()
			return nil
		case <-l.wake:
		}
	}
}

// flush applies everything queued so far, including functions queued by
// the functions it applies.
func (l *Loop) flush() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.apply(fn)
	}
}

func (l *Loop) apply(fn func()) {
	defer l.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop function panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close stops the loop from accepting new functions. Functions already
// queued are still applied by Run or Drain.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}
