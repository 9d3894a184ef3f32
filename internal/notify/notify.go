// Package notify defines the user-facing side effects the views trigger:
// transient notices and navigation to another page.
package notify

import (
	"sync"

	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// Variant is the visual style of a notice.
type Variant string

const (
	Success Variant = "success"
	Info    Variant = "info"
	Warning Variant = "warning"
	Error   Variant = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Title   string
	Message string
	Variant Variant
}

// Notifier shows notices.
type Notifier interface {
	Notice(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notice(n Notice) { f(n) }

// Page is a navigation destination.
type Page string

const (
	// BoatPage views a single boat record.
	BoatPage Page = "boat"
	// NewBoatPage opens the form for creating a boat.
	NewBoatPage Page = "new-boat"
	// UserPage views a reviewer's profile.
	UserPage Page = "user"
)

// Target identifies where to navigate.
type Target struct {
	Page Page
	ID   string
}

// BoatRecord returns the target for a boat's own page.
func BoatRecord(boatID string) Target { return Target{Page: BoatPage, ID: boatID} }

// NewBoat returns the target for the new boat form.
func NewBoat() Target { return Target{Page: NewBoatPage} }

// UserRecord returns the target for a user's page.
func UserRecord(userID string) Target { return Target{Page: UserPage, ID: userID} }

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(t Target)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Target)

func (f NavigatorFunc) Navigate(t Target) { f(t) }

// LogNotifier writes notices to a logger. It is the notifier used by
// commands that have no screen to draw on.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a notifier that logs through logger.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrNop(logger).WithComponent("notice")}
}

func (n *LogNotifier) Notice(no Notice) {
	args := []any{"title", no.Title, "variant", string(no.Variant)}
	switch no.Variant {
	case Error:
		n.logger.Error(no.Message, args...)
	case Warning:
		n.logger.Warn(no.Message, args...)
	default:
		n.logger.Info(no.Message, args...)
	}
}

// Recorder keeps every notice and navigation it receives. It satisfies both
// Notifier and Navigator.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	targets []Target
}

func (r *Recorder) Notice(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Navigate(t Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, t)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Targets returns a copy of the recorded navigation targets.
func (r *Recorder) Targets() []Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Target(nil), r.targets...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Count returns how many notices of variant v were recorded.
func (r *Recorder) Count(v Variant) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, no := range r.notices {
		if no.Variant == v {
			n++
		}
	}
	return n
}
