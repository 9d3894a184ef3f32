package views

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/loop"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/selection"
)

// fakeService is an in-memory boat.Service. Errors set on it are returned
// by the next calls of the matching method.
type fakeService struct {
	mu      sync.Mutex
	boats   map[string]boat.Boat
	types   []boat.BoatType
	reviews map[string][]boat.Review

	boatErr    error
	boatsErr   error
	updateErr  error
	typesErr   error
	reviewsErr error
	createErr  error
	nearErr    error

	calls map[string]int
}

func newFakeService(boats ...boat.Boat) *fakeService {
	f := &fakeService{
		boats:   make(map[string]boat.Boat),
		reviews: make(map[string][]boat.Review),
		calls:   make(map[string]int),
		types: []boat.BoatType{
			{ID: "t-fishing", Name: "Fishing"},
			{ID: "t-sail", Name: "Sailboat"},
		},
	}
	for _, b := range boats {
		f.boats[b.ID] = b
	}
	return f
}

func (f *fakeService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeService) called(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *fakeService) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.boats, id)
}

func (f *fakeService) Boat(_ context.Context, id string) (boat.Boat, error) {
	f.called("Boat")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.boatErr != nil {
		return boat.Boat{}, f.boatErr
	}
	b, ok := f.boats[id]
	if !ok {
		return boat.Boat{}, errors.NewNotFoundError("boat", id)
	}
	return b, nil
}

func (f *fakeService) Boats(_ context.Context, flt boat.Filter) ([]boat.Boat, error) {
	f.called("Boats")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.boatsErr != nil {
		return nil, f.boatsErr
	}
	var out []boat.Boat
	for _, b := range f.boats {
		if flt.TypeID == "" || b.TypeID == flt.TypeID {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b boat.Boat) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeService) UpdateBoats(_ context.Context, patches []boat.Patch) error {
	f.called("UpdateBoats")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, p := range patches {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, p := range patches {
		f.boats[p.ID] = p.Apply(f.boats[p.ID])
	}
	return nil
}

func (f *fakeService) BoatTypes(context.Context) ([]boat.BoatType, error) {
	f.called("BoatTypes")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return slices.Clone(f.types), nil
}

func (f *fakeService) Reviews(_ context.Context, boatID string) ([]boat.Review, error) {
	f.called("Reviews")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return slices.Clone(f.reviews[boatID]), nil
}

func (f *fakeService) CreateReview(_ context.Context, r boat.Review) (boat.Review, error) {
	f.called("CreateReview")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return boat.Review{}, f.createErr
	}
	r.ID = fmt.Sprintf("r-%d", len(f.reviews[r.BoatID])+1)
	f.reviews[r.BoatID] = append([]boat.Review{r}, f.reviews[r.BoatID]...)
	return r, nil
}

func (f *fakeService) SimilarBoats(_ context.Context, boatID string, by boat.SimilarBy) ([]boat.Boat, error) {
	f.called("SimilarBoats")
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boats[boatID]
	if !ok {
		return nil, errors.NewNotFoundError("boat", boatID)
	}
	var out []boat.Boat
	for _, other := range f.boats {
		if boat.Similar(b, other, by) {
			out = append(out, other)
		}
	}
	slices.SortFunc(out, func(a, b boat.Boat) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeService) BoatsNear(_ context.Context, from boat.Location, typeID string, limit int) ([]boat.Boat, error) {
	f.called("BoatsNear")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nearErr != nil {
		return nil, f.nearErr
	}
	var all []boat.Boat
	for _, b := range f.boats {
		if typeID == "" || b.TypeID == typeID {
			all = append(all, b)
		}
	}
	slices.SortFunc(all, func(a, b boat.Boat) int { return strings.Compare(a.ID, b.ID) })
	return boat.Nearest(all, from, limit), nil
}

// hints records cache hints.
type hints struct {
	created []string
	updated [][]string
}

func (h *hints) NotifyCreated(boatID string)     { h.created = append(h.created, boatID) }
func (h *hints) NotifyUpdated(boatIDs ...string) { h.updated = append(h.updated, boatIDs) }

// harness bundles the collaborators views are built with in tests.
type harness struct {
	bus   *event.Bus
	sel   *selection.Coordinator
	exec  *loop.Manual
	rec   *notify.Recorder
	hints *hints
	msgs  []event.Message
}

func newHarness() *harness {
	h := &harness{
		bus:   event.NewBus(nil),
		exec:  loop.NewManual(),
		rec:   &notify.Recorder{},
		hints: &hints{},
	}
	h.sel = selection.New(h.bus, nil)
	h.bus.SubscribeAll(func(m event.Message) { h.msgs = append(h.msgs, m) })
	return h
}

func (h *harness) deps() Deps {
	return Deps{
		Bus:         h.bus,
		Selection:   h.sel,
		Exec:        h.exec,
		Notifier:    h.rec,
		Navigator:   h.rec,
		Invalidator: h.hints,
	}
}

// count returns how many published messages have the given kind.
func (h *harness) count(kind event.Kind) int {
	n := 0
	for _, m := range h.msgs {
		if m.Kind() == kind {
			n++
		}
	}
	return n
}

var (
	seaBreeze = boat.Boat{ID: "b-sea-breeze", Name: "Sea Breeze", TypeID: "t-sail", Price: 350, Length: 32,
		Location: boat.Location{Latitude: 37.80, Longitude: -122.41}}
	saltyDog = boat.Boat{ID: "b-salty-dog", Name: "Salty Dog", TypeID: "t-fishing", Price: 300, Length: 28,
		Location: boat.Location{Latitude: 37.70, Longitude: -122.30}}
	reelDeal = boat.Boat{ID: "b-reel-deal", Name: "Reel Deal", TypeID: "t-fishing", Price: 420, Length: 30,
		Location: boat.Location{Latitude: 36.60, Longitude: -121.90}}
)

func fleet() *fakeService {
	return newFakeService(seaBreeze, saltyDog, reelDeal)
}
