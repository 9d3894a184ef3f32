package views

import (
	"context"
	"slices"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

// ListService is what the result list needs from the data layer.
type ListService interface {
	boat.Reader
	boat.Updater
}

const (
	listErrorTitle   = "Error loading boats"
	saveSuccessTitle = "Success"
	saveSuccessMsg   = "Ship it!"
	saveErrorTitle   = "Error"
)

// ListView shows the boats matching the current filter as tiles and as an
// editable table.
type ListView struct {
	deps   Deps
	svc    ListService
	logger *logging.Logger
	life   lifetime

	gen        Generation
	filter     boat.Filter
	pendingKey string
	fetching   bool
	boats      []boat.Boat
	selectedID string

	saving   bool
	saveErrs errors.ValidationErrors
	loading  bool

	onLoading func(bool)
	subs      []*event.Subscription
}

// NewListView creates the list. It re-fetches whenever a refresh message
// is published on the boat channel. Call Close when the view goes away.
func NewListView(svc ListService, deps Deps) *ListView {
	deps = deps.withDefaults()
	v := &ListView{
		deps:   deps,
		svc:    svc,
		logger: deps.Logger.WithComponent("list"),
		life:   newLifetime(),
	}
	if deps.Bus != nil {
		v.subs = append(v.subs, deps.Bus.Subscribe(event.BoatChannel, v.handleBoat))
	}
	return v
}

// OnLoading registers the callback told when loading starts and stops.
func (v *ListView) OnLoading(fn func(loading bool)) { v.onLoading = fn }

// updateLoading recomputes the loading flag from the fetch and save state.
func (v *ListView) updateLoading() {
	loading := v.fetching || v.saving
	if v.loading == loading {
		return
	}
	v.loading = loading
	if v.onLoading != nil {
		v.onLoading(loading)
	}
}

func (v *ListView) handleBoat(m event.Message) {
	msg, ok := m.(event.BoatMessage)
	if !ok || msg.Kind() != event.KindRefresh {
		return
	}
	v.Refresh()
}

// SetFilter fetches the boats for f. While a fetch for the same filter is
// still pending the call is ignored; a different filter supersedes the
// pending fetch.
func (v *ListView) SetFilter(f boat.Filter) {
	if v.fetching && f.Key() == v.pendingKey {
		v.logger.Debug("duplicate filter suppressed", "type_id", f.TypeID, "name", f.Name)
		return
	}
	v.filter = f
	v.fetch()
}

// Refresh re-fetches the current filter.
func (v *ListView) Refresh() {
	v.fetch()
}

func (v *ListView) fetch() {
	f := v.filter
	stamp := v.gen.Next()
	v.pendingKey = f.Key()
	v.fetching = true
	v.updateLoading()
	v.logger.Debug("fetch started", "generation", stamp, "type_id", f.TypeID)

	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		boats, err := v.svc.Boats(ctx, f)
		return func() { v.apply(stamp, f, boats, err) }
	})
}

func (v *ListView) apply(stamp uint64, f boat.Filter, boats []boat.Boat, err error) {
	if !v.gen.IsCurrent(stamp) {
		v.logger.Debug("stale result dropped", "generation", stamp, "current", v.gen.Current())
		return
	}
	v.pendingKey = ""
	v.fetching = false
	v.updateLoading()

	if err != nil {
		err = asFetchError("load boats", f.TypeID, err)
		v.logger.Warn("fetch failed", "generation", stamp, "error", err.Error())
		v.deps.Notifier.Notice(errorNotice(listErrorTitle, err))
		return
	}
	v.boats = boats
	v.logger.Debug("fetch applied", "generation", stamp, "count", len(boats))
}

// Select marks a tile as selected and announces the selection.
func (v *ListView) Select(boatID string) {
	if boatID == "" {
		return
	}
	v.selectedID = boatID
	if v.deps.Selection != nil {
		v.deps.Selection.Select(boatID)
	}
}

// Save applies inline edits. On success the caches are told, a refresh is
// published for the edited boats and the list re-fetches. On failure the
// rejections are kept for display and nothing is published.
func (v *ListView) Save(patches []boat.Patch) {
	patches = slices.DeleteFunc(slices.Clone(patches), func(p boat.Patch) bool { return p.Empty() })
	if len(patches) == 0 || v.saving {
		return
	}
	v.saving = true
	v.saveErrs = nil
	v.updateLoading()

	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		err := v.svc.UpdateBoats(ctx, patches)
		return func() { v.saved(patches, err) }
	})
}

func (v *ListView) saved(patches []boat.Patch, err error) {
	v.saving = false
	v.updateLoading()
	ids := boat.IDs(patches)

	if err != nil {
		var ves errors.ValidationErrors
		var ve *errors.ValidationError
		switch {
		case errors.As(err, &ves):
			v.saveErrs = ves
		case errors.As(err, &ve):
			v.saveErrs = errors.ValidationErrors{ve}
		}
		v.logger.Warn("save failed", "boats", len(ids), "error", err.Error())
		v.deps.Notifier.Notice(errorNotice(saveErrorTitle, err))
		return
	}

	v.logger.Info("boats saved", "boats", len(ids))
	v.deps.Notifier.Notice(notify.Notice{Title: saveSuccessTitle, Message: saveSuccessMsg, Variant: notify.Success})
	v.deps.Invalidator.NotifyUpdated(ids...)

	if v.deps.Selection != nil && v.deps.Bus != nil {
		// The refresh message reaches this view too and re-fetches the list.
		v.deps.Selection.Refresh(ids...)
		return
	}
	v.Refresh()
}

// Boats returns the boats of the last applied fetch.
func (v *ListView) Boats() []boat.Boat { return v.boats }

// Filter returns the filter of the latest request.
func (v *ListView) Filter() boat.Filter { return v.filter }

// Loading reports whether a fetch or save is in flight.
func (v *ListView) Loading() bool { return v.loading }

// SelectedID returns the id of the selected tile.
func (v *ListView) SelectedID() string { return v.selectedID }

// SaveErrors returns the rejections of the last failed save.
func (v *ListView) SaveErrors() errors.ValidationErrors { return v.saveErrs }

// TileClass returns the style class of a boat's tile.
func (v *ListView) TileClass(boatID string) string {
	return TileClass(boatID, v.selectedID)
}

// Close releases the view's subscriptions and cancels in-flight work.
func (v *ListView) Close() {
	releaseAll(&v.subs)
	v.life.cancel()
	v.gen.Invalidate()
}

const (
	tileClass         = "tile-wrapper"
	selectedTileClass = "tile-wrapper selected"
)

// TileClass returns the style class of a tile given the selected id.
func TileClass(boatID, selectedID string) string {
	if boatID != "" && boatID == selectedID {
		return selectedTileClass
	}
	return tileClass
}
