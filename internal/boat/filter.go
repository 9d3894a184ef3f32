package boat

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/Josh-Grafman/boatrental/internal/errors"
)

// Filter selects boats for the result list. The zero value matches every
// boat.
type Filter struct {
	// TypeID restricts results to one boat type. Empty means all types.
	TypeID string
	// Name is a case-insensitive glob over boat names, e.g. "*fish*".
	Name string
}

// Key identifies the filter for duplicate suppression.
func (f Filter) Key() string {
	return f.TypeID + "\x00" + strings.ToLower(f.Name)
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.TypeID == "" && f.Name == ""
}

// Validate reports a malformed name pattern.
func (f Filter) Validate() error {
	_, err := f.Matcher()
	return err
}

// Matcher compiles the filter into a predicate.
func (f Filter) Matcher() (func(Boat) bool, error) {
	var g glob.Glob
	if f.Name != "" {
		compiled, err := glob.Compile(strings.ToLower(f.Name))
		if err != nil {
			return nil, errors.NewValidationError("invalid name pattern").
				WithField("name").WithValue(f.Name).WithCause(err)
		}
		g = compiled
	}
	typeID := f.TypeID
	return func(b Boat) bool {
		if typeID != "" && b.TypeID != typeID {
			return false
		}
		return g == nil || g.Match(strings.ToLower(b.Name))
	}, nil
}

// Apply returns the boats matching f, preserving order.
func (f Filter) Apply(boats []Boat) ([]Boat, error) {
	match, err := f.Matcher()
	if err != nil {
		return nil, err
	}
	out := make([]Boat, 0, len(boats))
	for _, b := range boats {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}
