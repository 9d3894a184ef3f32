package tui

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	model *Model

	mu      sync.Mutex
	program *tea.Program
}

// New creates a new TUI application
func New(opts Options) *App {
	return &App{model: NewModel(opts)}
}

// Model returns the application's model.
func (a *App) Model() *Model { return a.model }

// Run starts the TUI application and blocks until the user quits.
func (a *App) Run(progOpts ...tea.ProgramOption) error {
	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, progOpts...)
	p := tea.NewProgram(a.model, opts...)
	a.mu.Lock()
	a.program = p
	a.mu.Unlock()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.Quit())
		case <-done:
		}
	}()

	_, err := p.Run()
	return err
}

// Post runs fn on the UI loop. It is how goroutines outside the program,
// such as the database watcher, reach the views. Calls before Run or after
// the program exits are dropped.
func (a *App) Post(fn func()) {
	a.mu.Lock()
	p := a.program
	a.mu.Unlock()
	if p == nil || fn == nil {
		return
	}
	p.Send(postMsg{fn: fn})
}

// Refresh tells every view that the given boats changed. No ids means every
// boat.
func (a *App) Refresh(boatIDs ...string) {
	a.Post(func() { a.model.sel.Refresh(boatIDs...) })
}
