package boat

import (
	"math"
	"sort"

	"github.com/Josh-Grafman/boatrental/internal/errors"
)

// Location is a point on the earth in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Validate reports coordinates outside the valid range.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return errors.NewValidationError("latitude must be between -90 and 90").
			WithField("latitude").WithValue(l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return errors.NewValidationError("longitude must be between -180 and 180").
			WithField("longitude").WithValue(l.Longitude)
	}
	return nil
}

const earthRadiusMiles = 3958.8

// DistanceMiles returns the great-circle distance between a and b.
func DistanceMiles(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Nearest returns up to limit boats ordered by distance from from. Ties
// keep their input order. A non-positive limit returns every boat.
func Nearest(boats []Boat, from Location, limit int) []Boat {
	type ranked struct {
		boat Boat
		dist float64
	}
	rs := make([]ranked, len(boats))
	for i, b := range boats {
		rs[i] = ranked{boat: b, dist: DistanceMiles(from, b.Location)}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].dist < rs[j].dist })

	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	out := make([]Boat, len(rs))
	for i, r := range rs {
		out[i] = r.boat
	}
	return out
}

// Marker is a pin on a map.
type Marker struct {
	Title    string
	Location Location
	Icon     string
}

// YouAreHere is the title of the marker for the user's own position.
const YouAreHere = "You are here!"

// UserIcon marks the user's own position.
const UserIcon = "user"

// Markers returns one marker per boat. When user is non-nil its marker
// comes first.
func Markers(boats []Boat, user *Location) []Marker {
	out := make([]Marker, 0, len(boats)+1)
	if user != nil {
		out = append(out, Marker{Title: YouAreHere, Location: *user, Icon: UserIcon})
	}
	for _, b := range boats {
		out = append(out, Marker{Title: b.Name, Location: b.Location})
	}
	return out
}
