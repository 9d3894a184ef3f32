package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

const mapErrorTitle = "Error loading location"

// MapView shows the selected boat's location as a single marker.
type MapView struct {
	deps   Deps
	svc    BoatFetcher
	logger *logging.Logger
	life   lifetime

	gen     Generation
	boat    *boat.Boat
	markers []boat.Marker
	subs    []*event.Subscription
}

// NewMapView creates a map that follows the selection.
func NewMapView(svc BoatFetcher, deps Deps) *MapView {
	v := newMapView(svc, deps)
	if v.deps.Bus != nil {
		v.subs = append(v.subs, v.deps.Bus.Subscribe(event.BoatChannel, v.handleBoat))
	}
	return v
}

// NewPinnedMapView creates a map of one boat that ignores the selection.
func NewPinnedMapView(boatID string, svc BoatFetcher, deps Deps) *MapView {
	v := newMapView(svc, deps)
	v.Show(boatID)
	return v
}

func newMapView(svc BoatFetcher, deps Deps) *MapView {
	deps = deps.withDefaults()
	return &MapView{
		deps:   deps,
		svc:    svc,
		logger: deps.Logger.WithComponent("map"),
		life:   newLifetime(),
	}
}

func (v *MapView) handleBoat(m event.Message) {
	msg, ok := m.(event.BoatMessage)
	if !ok || msg.Kind() != event.KindSelect {
		return
	}
	v.Show(msg.BoatID)
}

// Show fetches boatID's location.
func (v *MapView) Show(boatID string) {
	if boatID == "" {
		return
	}
	stamp := v.gen.Next()
	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		b, err := v.svc.Boat(ctx, boatID)
		return func() {
			if !v.gen.IsCurrent(stamp) {
				return
			}
			if err != nil {
				v.boat = nil
				v.markers = nil
				err = asFetchError("load location", boatID, err)
				v.logger.Warn("fetch failed", "boat_id", boatID, "error", err.Error())
				v.deps.Notifier.Notice(errorNotice(mapErrorTitle, err))
				return
			}
			v.boat = &b
			v.markers = boat.Markers([]boat.Boat{b}, nil)
		}
	})
}

// Boat returns the boat on the map.
func (v *MapView) Boat() (boat.Boat, bool) {
	if v.boat == nil {
		return boat.Boat{}, false
	}
	return *v.boat, true
}

// Markers returns the map's pins.
func (v *MapView) Markers() []boat.Marker { return v.markers }

// Close releases the subscription and cancels in-flight work.
func (v *MapView) Close() {
	releaseAll(&v.subs)
	v.life.cancel()
	v.gen.Invalidate()
}
