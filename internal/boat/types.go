package boat

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllTypesLabel is the option that clears the type filter.
const AllTypesLabel = "All Types"

// TypeOption is one entry of the search form's type picker.
type TypeOption struct {
	Label string
	Value string
}

// TypeOptions returns the picker options: "All Types" with an empty value
// first, then one option per type.
func TypeOptions(types []BoatType) []TypeOption {
	opts := make([]TypeOption, 0, len(types)+1)
	opts = append(opts, TypeOption{Label: AllTypesLabel, Value: ""})
	for _, t := range types {
		opts = append(opts, TypeOption{Label: t.Name, Value: t.ID})
	}
	return opts
}

// maxTypeDistance is the largest edit distance accepted as a typo.
const maxTypeDistance = 3

// FindType resolves a user-typed type name or id. Exact id and
// case-insensitive name matches win; otherwise the closest name within a
// small edit distance is returned.
func FindType(types []BoatType, query string) (BoatType, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return BoatType{}, false
	}
	for _, t := range types {
		if t.ID == q || strings.EqualFold(t.Name, q) {
			return t, true
		}
	}

	lower := strings.ToLower(q)
	best, bestDist := BoatType{}, maxTypeDistance+1
	for _, t := range types {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(t.Name))
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, bestDist <= maxTypeDistance
}

// TypeName normalizes a boat type name for display: "party barge" becomes
// "Party Barge".
func TypeName(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}
