package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

// Tab is one of the detail view's tabs.
type Tab string

const (
	TabDetails   Tab = "details"
	TabReviews   Tab = "reviews"
	TabAddReview Tab = "add_review"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabDetails, TabReviews, TabAddReview}

// PleaseSelect is shown when no boat is selected.
const PleaseSelect = "Please select a boat!"

const (
	detailErrorTitle = "Error loading boat"
	detailsIcon      = "anchor"
)

// BoatFetcher fetches one boat.
type BoatFetcher interface {
	Boat(ctx context.Context, id string) (boat.Boat, error)
}

// DetailView shows the selected boat in tabs: details, reviews, and the
// add review form.
type DetailView struct {
	deps    Deps
	svc     BoatFetcher
	logger  *logging.Logger
	life    lifetime
	reviews *ReviewsView
	pinned  bool

	gen       Generation
	boatID    string
	boat      *boat.Boat
	loading   bool
	activeTab Tab
	fetches   int

	subs []*event.Subscription
}

// NewDetailView creates a detail view that follows the selection. It
// subscribes to the boat and review channels; Close releases them.
func NewDetailView(svc BoatFetcher, reviews *ReviewsView, deps Deps) *DetailView {
	v := newDetailView(svc, reviews, deps)
	if v.deps.Bus != nil {
		v.subs = append(v.subs,
			v.deps.Bus.Subscribe(event.BoatChannel, v.handleBoat),
			v.deps.Bus.Subscribe(event.ReviewChannel, v.handleReview))
	}
	return v
}

// NewPinnedDetailView creates a detail view for one boat's own page. It
// does not follow the selection and does not subscribe to the bus.
func NewPinnedDetailView(boatID string, svc BoatFetcher, reviews *ReviewsView, deps Deps) *DetailView {
	v := newDetailView(svc, reviews, deps)
	v.pinned = true
	v.load(boatID)
	return v
}

func newDetailView(svc BoatFetcher, reviews *ReviewsView, deps Deps) *DetailView {
	deps = deps.withDefaults()
	return &DetailView{
		deps:      deps,
		svc:       svc,
		logger:    deps.Logger.WithComponent("detail"),
		life:      newLifetime(),
		reviews:   reviews,
		activeTab: TabDetails,
	}
}

func (v *DetailView) handleBoat(m event.Message) {
	msg, ok := m.(event.BoatMessage)
	if !ok {
		return
	}
	switch msg.Kind() {
	case event.KindSelect:
		v.load(msg.BoatID)
	case event.KindRefresh:
		if msg.Covers(v.boatID) {
			v.fetch()
		}
	}
}

func (v *DetailView) handleReview(m event.Message) {
	msg, ok := m.(event.ReviewMessage)
	if !ok || msg.Kind() != event.KindCreated || msg.BoatID != v.boatID || v.boatID == "" {
		return
	}
	v.activeTab = TabReviews
	if v.reviews != nil {
		v.reviews.Refresh()
	}
}

// load switches to boatID and fetches it along with its reviews.
func (v *DetailView) load(boatID string) {
	if boatID == "" {
		return
	}
	if boatID != v.boatID {
		v.boat = nil
	}
	v.boatID = boatID
	v.fetch()
	if v.reviews != nil {
		v.reviews.Load(boatID)
	}
}

func (v *DetailView) fetch() {
	id := v.boatID
	if id == "" {
		return
	}
	stamp := v.gen.Next()
	v.loading = true
	v.fetches++
	v.logger.Debug("fetch started", "boat_id", id, "generation", stamp)

	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		b, err := v.svc.Boat(ctx, id)
		return func() { v.apply(stamp, id, b, err) }
	})
}

func (v *DetailView) apply(stamp uint64, id string, b boat.Boat, err error) {
	if !v.gen.IsCurrent(stamp) {
		v.logger.Debug("stale result dropped", "boat_id", id, "generation", stamp)
		return
	}
	v.loading = false

	switch {
	case errors.IsNotFound(err):
		v.logger.Info("selected boat no longer exists", "boat_id", id)
		v.clear()
		if !v.pinned && v.deps.Selection != nil {
			v.deps.Selection.Clear()
		}
	case err != nil:
		err = asFetchError("load boat", id, err)
		v.logger.Warn("fetch failed", "boat_id", id, "error", err.Error())
		v.deps.Notifier.Notice(errorNotice(detailErrorTitle, err))
	default:
		v.boat = &b
	}
}

func (v *DetailView) clear() {
	v.boatID = ""
	v.boat = nil
	v.activeTab = TabDetails
	if v.reviews != nil {
		v.reviews.Load("")
	}
}

// Boat returns the displayed boat.
func (v *DetailView) Boat() (boat.Boat, bool) {
	if v.boat == nil {
		return boat.Boat{}, false
	}
	return *v.boat, true
}

// BoatID returns the id of the boat the view is showing or loading.
func (v *DetailView) BoatID() string { return v.boatID }

// Title returns the boat's name, or a prompt to select one.
func (v *DetailView) Title() string {
	if v.boat == nil {
		return PleaseSelect
	}
	return v.boat.Name
}

// DetailsIcon returns the icon of the details tab; empty when no boat is
// shown.
func (v *DetailView) DetailsIcon() string {
	if v.boat == nil {
		return ""
	}
	return detailsIcon
}

// Loading reports whether a boat fetch is in flight.
func (v *DetailView) Loading() bool { return v.loading }

// Fetches returns how many boat fetches the view has started.
func (v *DetailView) Fetches() int { return v.fetches }

// ActiveTab returns the visible tab.
func (v *DetailView) ActiveTab() Tab { return v.activeTab }

// SetActiveTab switches tabs.
func (v *DetailView) SetActiveTab(t Tab) { v.activeTab = t }

// Reviews returns the reviews child.
func (v *DetailView) Reviews() *ReviewsView { return v.reviews }

// NavigateToRecord opens the shown boat's own page.
func (v *DetailView) NavigateToRecord() {
	if v.boatID == "" {
		return
	}
	v.deps.Navigator.Navigate(notify.BoatRecord(v.boatID))
}

// Close releases the subscriptions and cancels in-flight work.
func (v *DetailView) Close() {
	releaseAll(&v.subs)
	v.life.cancel()
	v.gen.Invalidate()
	if v.reviews != nil {
		v.reviews.Close()
	}
}
