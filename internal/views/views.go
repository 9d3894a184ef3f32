// Package views implements the rental browser's screen components: the
// search form and result list, the detail tabs with their reviews, the add
// review form, the boat map, boats near me and similar boats.
//
// Views are plain state machines. They never draw anything themselves; the
// terminal UI renders their state and forwards user actions to them.
//
// # Threading
//
// Every method of a view, and every bus handler a view registers, must run
// on the same goroutine: the UI loop. Blocking fetches go through a
// loop.Executor, whose continuations run back on that loop. Publish on the
// bus from the loop too, so subscribed views are only touched there.
//
// # Last request wins
//
// A view that can have several fetches in flight stamps each with the next
// value of its Generation and applies a result only if its stamp is still
// current. Late results of superseded fetches are dropped.
package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/loop"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/selection"
)

// Deps are the collaborators shared by every view.
type Deps struct {
	Bus         *event.Bus
	Selection   *selection.Coordinator
	Exec        loop.Executor
	Notifier    notify.Notifier
	Navigator   notify.Navigator
	Invalidator boat.Invalidator
	Logger      *logging.Logger
}

// withDefaults fills the optional collaborators with no-op versions.
func (d Deps) withDefaults() Deps {
	if d.Exec == nil {
		d.Exec = loop.Inline{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.NotifierFunc(func(notify.Notice) {})
	}
	if d.Navigator == nil {
		d.Navigator = notify.NavigatorFunc(func(notify.Target) {})
	}
	if d.Invalidator == nil {
		d.Invalidator = noInvalidator{}
	}
	d.Logger = logging.OrNop(d.Logger)
	return d
}

type noInvalidator struct{}

func (noInvalidator) NotifyCreated(string)    {}
func (noInvalidator) NotifyUpdated(...string) {}

// Generation is a monotonic request counter. It is confined to the UI loop.
type Generation struct {
	n uint64
}

// Next starts a new request and returns its stamp.
func (g *Generation) Next() uint64 {
	g.n++
	return g.n
}

// Current returns the stamp of the latest request.
func (g *Generation) Current() uint64 { return g.n }

// IsCurrent reports whether stamp belongs to the latest request.
func (g *Generation) IsCurrent(stamp uint64) bool { return stamp == g.n }

// Invalidate supersedes every in-flight request without starting a new one.
func (g *Generation) Invalidate() { g.n++ }

// lifetime is the cancelable context a view runs its fetches under.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// errorNotice builds the notice for a failed operation.
func errorNotice(title string, err error) notify.Notice {
	return notify.Notice{Title: title, Message: errors.UserMessage(err), Variant: notify.Error}
}

// asFetchError marks a failed read as a transient fetch failure unless it
// already classifies as something more specific.
func asFetchError(op, resource string, err error) error {
	if err == nil || errors.IsNotFound(err) || errors.IsValidation(err) {
		return err
	}
	var fe *errors.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return errors.NewFetchError(op, err).WithResource(resource)
}

// releaseAll releases subscriptions and empties the slice.
func releaseAll(subs *[]*event.Subscription) {
	for _, s := range *subs {
		s.Release()
	}
	*subs = nil
}
