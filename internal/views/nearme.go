package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// DefaultNearMeLimit is how many boats "near me" shows.
const DefaultNearMeLimit = 10

const nearMeErrorTitle = "Error loading Boats Near Me"

// Locator finds the user's position.
type Locator interface {
	Locate(ctx context.Context) (boat.Location, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (boat.Location, error)

func (f LocatorFunc) Locate(ctx context.Context) (boat.Location, error) { return f(ctx) }

// FixedLocator always reports the same position.
type FixedLocator boat.Location

func (l FixedLocator) Locate(context.Context) (boat.Location, error) { return boat.Location(l), nil }

// NearFinder finds the boats closest to a position.
type NearFinder interface {
	BoatsNear(ctx context.Context, from boat.Location, typeID string, limit int) ([]boat.Boat, error)
}

// NearMeView lists the boats closest to the user.
type NearMeView struct {
	deps    Deps
	svc     NearFinder
	locator Locator
	limit   int
	logger  *logging.Logger
	life    lifetime

	gen     Generation
	typeID  string
	user    *boat.Location
	boats   []boat.Boat
	markers []boat.Marker
	loading bool
}

// NewNearMeView creates the view. A limit of zero means DefaultNearMeLimit.
func NewNearMeView(svc NearFinder, locator Locator, limit int, deps Deps) *NearMeView {
	deps = deps.withDefaults()
	if limit <= 0 {
		limit = DefaultNearMeLimit
	}
	return &NearMeView{
		deps:    deps,
		svc:     svc,
		locator: locator,
		limit:   limit,
		logger:  deps.Logger.WithComponent("near_me"),
		life:    newLifetime(),
	}
}

// Load locates the user and fetches the nearest boats, optionally of one
// type only.
func (v *NearMeView) Load(typeID string) {
	v.typeID = typeID
	stamp := v.gen.Next()
	v.loading = true
	limit := v.limit

	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		at, err := v.locator.Locate(ctx)
		var boats []boat.Boat
		if err == nil {
			boats, err = v.svc.BoatsNear(ctx, at, typeID, limit)
		}
		return func() {
			if !v.gen.IsCurrent(stamp) {
				return
			}
			v.loading = false
			if err != nil {
				err = asFetchError("load boats near me", typeID, err)
				v.logger.Warn("fetch failed", "error", err.Error())
				v.deps.Notifier.Notice(errorNotice(nearMeErrorTitle, err))
				return
			}
			v.user = &at
			v.boats = boats
			v.markers = boat.Markers(boats, &at)
		}
	})
}

// Boats returns the nearest boats, closest first.
func (v *NearMeView) Boats() []boat.Boat { return v.boats }

// Markers returns the user's marker followed by one per boat.
func (v *NearMeView) Markers() []boat.Marker { return v.markers }

// User returns the user's last known position.
func (v *NearMeView) User() (boat.Location, bool) {
	if v.user == nil {
		return boat.Location{}, false
	}
	return *v.user, true
}

// Distance returns how far b is from the user, in miles.
func (v *NearMeView) Distance(b boat.Boat) float64 {
	if v.user == nil {
		return 0
	}
	return boat.DistanceMiles(*v.user, b.Location)
}

// Loading reports whether a search is in flight.
func (v *NearMeView) Loading() bool { return v.loading }

// Close cancels in-flight work.
func (v *NearMeView) Close() {
	v.life.cancel()
	v.gen.Invalidate()
}
