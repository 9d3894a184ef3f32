package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

// SearchForm offers the boat types to filter by.
type SearchForm struct {
	deps   Deps
	svc    boat.TypeLister
	logger *logging.Logger
	life   lifetime

	gen      Generation
	types    []boat.BoatType
	options  []boat.TypeOption
	chosen   string
	err      error
	loading  bool
	onSearch func(typeID string)
}

// NewSearchForm creates the form. onSearch is called with the chosen type
// id; the empty id means every type.
func NewSearchForm(svc boat.TypeLister, onSearch func(typeID string), deps Deps) *SearchForm {
	deps = deps.withDefaults()
	return &SearchForm{
		deps:     deps,
		svc:      svc,
		logger:   deps.Logger.WithComponent("search_form"),
		life:     newLifetime(),
		onSearch: onSearch,
	}
}

// Load fetches the boat types.
func (f *SearchForm) Load() {
	stamp := f.gen.Next()
	f.loading = true
	f.deps.Exec.Go(f.life.ctx, func(ctx context.Context) func() {
		types, err := f.svc.BoatTypes(ctx)
		return func() {
			if !f.gen.IsCurrent(stamp) {
				return
			}
			f.loading = false
			if err != nil {
				f.err = asFetchError("load boat types", "", err)
				f.types = nil
				f.options = nil
				f.logger.Warn("fetch failed", "error", f.err.Error())
				return
			}
			f.err = nil
			f.types = types
			f.options = boat.TypeOptions(types)
		}
	})
}

// Options returns the choices, "All Types" first. Empty until types load
// or after a failed load.
func (f *SearchForm) Options() []boat.TypeOption { return f.options }

// Types returns the loaded boat types.
func (f *SearchForm) Types() []boat.BoatType { return f.types }

// Err returns the error of the last load.
func (f *SearchForm) Err() error { return f.err }

// Loading reports whether types are being fetched.
func (f *SearchForm) Loading() bool { return f.loading }

// Chosen returns the chosen type id.
func (f *SearchForm) Chosen() string { return f.chosen }

// Choose picks a type and runs the search.
func (f *SearchForm) Choose(typeID string) {
	f.chosen = typeID
	if f.onSearch != nil {
		f.onSearch(typeID)
	}
}

// ChooseByName picks the type closest to name. It reports whether one was
// found; "All Types" and the empty string choose every type.
func (f *SearchForm) ChooseByName(name string) bool {
	if name == "" || name == boat.AllTypesLabel {
		f.Choose("")
		return true
	}
	t, ok := boat.FindType(f.types, name)
	if !ok {
		return false
	}
	f.Choose(t.ID)
	return true
}

// Close cancels in-flight work.
func (f *SearchForm) Close() {
	f.life.cancel()
	f.gen.Invalidate()
}

// Search is the search screen: the type form above the result list.
type Search struct {
	deps    Deps
	form    *SearchForm
	list    *ListView
	loading bool
}

// NewSearch wires a search form to a result list.
func NewSearch(svc boat.Service, deps Deps) *Search {
	deps = deps.withDefaults()
	s := &Search{deps: deps}
	s.list = NewListView(svc, deps)
	s.list.OnLoading(func(loading bool) { s.loading = loading })
	s.form = NewSearchForm(svc, s.search, deps)
	return s
}

func (s *Search) search(typeID string) {
	f := s.list.Filter()
	f.TypeID = typeID
	s.list.SetFilter(f)
}

// Start loads the types and the unfiltered list.
func (s *Search) Start() {
	s.form.Load()
	s.list.SetFilter(boat.Filter{})
}

// Form returns the search form.
func (s *Search) Form() *SearchForm { return s.form }

// List returns the result list.
func (s *Search) List() *ListView { return s.list }

// Loading reports whether the result list is busy.
func (s *Search) Loading() bool { return s.loading }

// CreateNewBoat opens the new boat page.
func (s *Search) CreateNewBoat() {
	s.deps.Navigator.Navigate(notify.NewBoat())
}

// Close closes both children.
func (s *Search) Close() {
	s.form.Close()
	s.list.Close()
}
