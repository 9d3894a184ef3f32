package tui

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/loop"
)

// resultMsg carries a finished work's continuation back into Update.
type resultMsg struct {
	apply func()
}

// postMsg runs fn inside Update. Goroutines outside the program use it to
// reach the views.
type postMsg struct {
	fn func()
}

// Executor is the loop.Executor of the terminal UI. Work becomes a tea.Cmd
// that bubbletea runs off the event loop; the continuation comes back as a
// resultMsg and is applied inside Update.
//
// Views schedule work while Update runs. The model collects the scheduled
// commands with Flush before returning from Update.
type Executor struct {
	logger *logging.Logger

	mu      sync.Mutex
	pending []tea.Cmd
}

var _ loop.Executor = (*Executor)(nil)

// NewExecutor creates an executor with nothing scheduled.
func NewExecutor(logger *logging.Logger) *Executor {
	return &Executor{logger: logging.OrNop(logger).WithComponent("tui_exec")}
}

// Go schedules work. It runs once the next Flush result is returned to
// bubbletea.
func (e *Executor) Go(ctx context.Context, work loop.Work) {
	if work == nil {
		return
	}
	cmd := func() tea.Msg {
		if cont := e.run(ctx, work); cont != nil {
			return resultMsg{apply: cont}
		}
		return nil
	}
	e.mu.Lock()
	e.pending = append(e.pending, cmd)
	e.mu.Unlock()
}

func (e *Executor) run(ctx context.Context, work loop.Work) (cont func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("work panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			cont = nil
		}
	}()
	return work(ctx)
}

// Flush returns the scheduled work as one command and forgets it. It
// returns nil when nothing is scheduled.
func (e *Executor) Flush() tea.Cmd {
	e.mu.Lock()
	cmds := e.pending
	e.pending = nil
	e.mu.Unlock()

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Pending returns the number of scheduled commands.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
