package views

import (
	"context"
	"testing"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

func TestSearchForm_Options(t *testing.T) {
	h := newHarness()
	var chosen []string
	f := NewSearchForm(fleet(), func(id string) { chosen = append(chosen, id) }, h.deps())
	defer f.Close()

	f.Load()
	h.exec.ResolveAll()

	opts := f.Options()
	if len(opts) != 3 {
		t.Fatalf("len(Options()) = %d, want 3", len(opts))
	}
	if opts[0].Label != boat.AllTypesLabel || opts[0].Value != "" {
		t.Errorf("first option = %+v, want All Types", opts[0])
	}

	f.Choose("t-sail")
	if !f.ChooseByName("fishng") {
		t.Error("ChooseByName(fishng) found nothing")
	}
	f.ChooseByName(boat.AllTypesLabel)
	if f.ChooseByName("submarine") {
		t.Error("ChooseByName(submarine) matched")
	}

	want := []string{"t-sail", "t-fishing", ""}
	if !equalIDs(chosen, want) {
		t.Errorf("searches = %v, want %v", chosen, want)
	}
}

func TestSearchForm_LoadError(t *testing.T) {
	h := newHarness()
	svc := fleet()
	f := NewSearchForm(svc, nil, h.deps())
	defer f.Close()

	f.Load()
	h.exec.ResolveAll()
	svc.typesErr = errors.New("no such table")
	f.Load()
	h.exec.ResolveAll()

	if f.Err() == nil {
		t.Error("Err() = nil after failed load")
	}
	if f.Options() != nil {
		t.Errorf("Options() = %v, want cleared", f.Options())
	}
}

func TestSearch(t *testing.T) {
	h := newHarness()
	s := NewSearch(fleet(), h.deps())
	defer s.Close()

	s.Start()
	if !s.Loading() {
		t.Error("Loading() = false after Start")
	}
	h.exec.ResolveAll()
	if s.Loading() {
		t.Error("Loading() = true after fetches finished")
	}
	if len(s.List().Boats()) != 3 {
		t.Errorf("len(Boats()) = %d, want 3", len(s.List().Boats()))
	}

	s.Form().Choose("t-fishing")
	h.exec.ResolveAll()
	if got := ids(s.List().Boats()); !equalIDs(got, []string{"b-reel-deal", "b-salty-dog"}) {
		t.Errorf("Boats() = %v", got)
	}

	s.CreateNewBoat()
	if targets := h.rec.Targets(); len(targets) != 1 || targets[0] != notify.NewBoat() {
		t.Errorf("Targets() = %v", targets)
	}
}

func TestMapView(t *testing.T) {
	h := newHarness()
	svc := fleet()
	mv := NewMapView(svc, h.deps())
	defer mv.Close()

	h.sel.Select("b-salty-dog")
	h.exec.ResolveAll()

	markers := mv.Markers()
	if len(markers) != 1 || markers[0].Title != "Salty Dog" {
		t.Fatalf("Markers() = %+v", markers)
	}
	if markers[0].Location != saltyDog.Location {
		t.Errorf("marker at %+v, want %+v", markers[0].Location, saltyDog.Location)
	}

	svc.boatErr = errors.New("offline")
	h.sel.Select("b-reel-deal")
	h.exec.ResolveAll()
	if _, ok := mv.Boat(); ok || mv.Markers() != nil {
		t.Error("map kept the previous boat after a failed fetch")
	}
}

func TestMapView_Pinned(t *testing.T) {
	h := newHarness()
	mv := NewPinnedMapView("b-reel-deal", fleet(), h.deps())
	defer mv.Close()
	h.exec.ResolveAll()

	h.sel.Select("b-salty-dog")
	h.exec.ResolveAll()
	if b, _ := mv.Boat(); b.ID != "b-reel-deal" {
		t.Errorf("pinned map followed the selection: %q", b.ID)
	}
}

func TestNearMeView(t *testing.T) {
	h := newHarness()
	home := boat.Location{Latitude: 37.79, Longitude: -122.40}
	nv := NewNearMeView(fleet(), FixedLocator(home), 2, h.deps())
	defer nv.Close()

	nv.Load("")
	h.exec.ResolveAll()

	if got := ids(nv.Boats()); !equalIDs(got, []string{"b-sea-breeze", "b-salty-dog"}) {
		t.Errorf("Boats() = %v", got)
	}
	markers := nv.Markers()
	if len(markers) != 3 || markers[0].Title != boat.YouAreHere || markers[0].Location != home {
		t.Errorf("Markers() = %+v", markers)
	}
	if d := nv.Distance(nv.Boats()[0]); d <= 0 || d > 2 {
		t.Errorf("Distance() = %v, want under two miles", d)
	}

	nv.Load("t-fishing")
	h.exec.ResolveAll()
	if got := ids(nv.Boats()); !equalIDs(got, []string{"b-salty-dog", "b-reel-deal"}) {
		t.Errorf("fishing Boats() = %v", got)
	}
}

func TestNearMeView_LocateError(t *testing.T) {
	h := newHarness()
	loc := LocatorFunc(func(context.Context) (boat.Location, error) {
		return boat.Location{}, errors.New("permission denied")
	})
	nv := NewNearMeView(fleet(), loc, 0, h.deps())
	defer nv.Close()

	nv.Load("")
	h.exec.ResolveAll()

	n, ok := h.rec.Last()
	if !ok || n.Title != "Error loading Boats Near Me" || n.Variant != notify.Error {
		t.Errorf("Last() = %+v", n)
	}
	if _, ok := nv.User(); ok {
		t.Error("User() reported a position after a failed locate")
	}
}

func TestSimilarView(t *testing.T) {
	tests := []struct {
		by    boat.SimilarBy
		want  []string
		title string
	}{
		{boat.SimilarByType, []string{"b-reel-deal"}, "Similar boats by Type"},
		{boat.SimilarByPrice, []string{"b-sea-breeze"}, "Similar boats by Price"},
		{boat.SimilarByLength, []string{"b-reel-deal", "b-sea-breeze"}, "Similar boats by Length"},
	}
	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			h := newHarness()
			sv := NewSimilarView("b-salty-dog", tt.by, fleet(), h.deps())
			defer sv.Close()

			sv.Load()
			h.exec.ResolveAll()

			if sv.Title() != tt.title {
				t.Errorf("Title() = %q, want %q", sv.Title(), tt.title)
			}
			if got := ids(sv.Boats()); !equalIDs(got, tt.want) {
				t.Errorf("Boats() = %v, want %v", got, tt.want)
			}
			if sv.NoBoats() {
				t.Error("NoBoats() = true")
			}
		})
	}
}

func TestSimilarView_OpenAndEmpty(t *testing.T) {
	h := newHarness()
	svc := newFakeService(seaBreeze)
	sv := NewSimilarView("b-sea-breeze", "", svc, h.deps())
	defer sv.Close()

	sv.Load()
	h.exec.ResolveAll()
	if !sv.NoBoats() {
		t.Error("NoBoats() = false for a lone boat")
	}

	sv.Open("b-reel-deal")
	if targets := h.rec.Targets(); len(targets) != 1 || targets[0] != notify.BoatRecord("b-reel-deal") {
		t.Errorf("Targets() = %v", targets)
	}
}
