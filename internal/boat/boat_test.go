package boat

import (
	"math"
	"strings"
	"testing"

	"github.com/Josh-Grafman/boatrental/internal/errors"
)

func ptr[T any](v T) *T { return &v }

func TestReview_Validate(t *testing.T) {
	tests := []struct {
		name      string
		review    Review
		wantField string
	}{
		{"valid", Review{BoatID: "b-1", Subject: "Great boat", Rating: 4}, ""},
		{"zero rating allowed", Review{BoatID: "b-1", Subject: "ok", Rating: 0}, ""},
		{"missing boat", Review{Subject: "x", Rating: 3}, "boat_id"},
		{"blank subject", Review{BoatID: "b-1", Subject: "   ", Rating: 3}, "subject"},
		{"rating too high", Review{BoatID: "b-1", Subject: "x", Rating: 6}, "rating"},
		{"negative rating", Review{BoatID: "b-1", Subject: "x", Rating: -1}, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   Patch
		wantErr int
	}{
		{"valid", Patch{ID: "b-1", Name: ptr("Sea Breeze"), Price: ptr(250.0)}, 0},
		{"missing id", Patch{Name: ptr("x")}, 1},
		{"blank name", Patch{ID: "b-1", Name: ptr(" ")}, 1},
		{"bad length and price", Patch{ID: "b-1", Length: ptr(0.0), Price: ptr(-1.0)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ves errors.ValidationErrors
			if !errors.As(err, &ves) {
				t.Fatalf("Validate() = %v, want ValidationErrors", err)
			}
			if len(ves) != tt.wantErr {
				t.Errorf("got %d errors, want %d", len(ves), tt.wantErr)
			}
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	b := Boat{ID: "b-1", Name: "Old", Length: 20, Price: 100, Description: "d"}
	p := Patch{ID: "b-1", Name: ptr(" New "), Price: ptr(150.0)}

	got := p.Apply(b)
	if got.Name != "New" || got.Price != 150 || got.Length != 20 || got.Description != "d" {
		t.Errorf("Apply() = %+v", got)
	}
	if b.Name != "Old" {
		t.Error("Apply should not mutate its argument")
	}
	if !(Patch{ID: "b-1"}).Empty() || p.Empty() {
		t.Error("Empty() mismatch")
	}
	if ids := IDs([]Patch{{ID: "a"}, {ID: "b"}}); strings.Join(ids, ",") != "a,b" {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestSimilar(t *testing.T) {
	base := Boat{ID: "b-1", TypeID: "t-1", Price: 500, Length: 30}

	tests := []struct {
		name  string
		other Boat
		by    SimilarBy
		want  bool
	}{
		{"same type", Boat{ID: "b-2", TypeID: "t-1"}, SimilarByType, true},
		{"other type", Boat{ID: "b-2", TypeID: "t-2"}, SimilarByType, false},
		{"price edge", Boat{ID: "b-2", Price: 600}, SimilarByPrice, true},
		{"price out", Boat{ID: "b-2", Price: 601}, SimilarByPrice, false},
		{"length edge", Boat{ID: "b-2", Length: 25}, SimilarByLength, true},
		{"length out", Boat{ID: "b-2", Length: 35.5}, SimilarByLength, false},
		{"never itself", base, SimilarByType, false},
		{"unknown attribute", Boat{ID: "b-2", TypeID: "t-1"}, SimilarBy("Color"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(base, tt.other, tt.by); got != tt.want {
				t.Errorf("Similar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSimilarBy(t *testing.T) {
	if got, err := ParseSimilarBy("price"); err != nil || got != SimilarByPrice {
		t.Errorf("ParseSimilarBy(price) = %q, %v", got, err)
	}
	if _, err := ParseSimilarBy("color"); !errors.IsValidation(err) {
		t.Errorf("ParseSimilarBy(color) = %v, want validation error", err)
	}
}

func TestFilter(t *testing.T) {
	boats := []Boat{
		{ID: "1", Name: "Fishing Frenzy", TypeID: "fish"},
		{ID: "2", Name: "Party Time", TypeID: "party"},
		{ID: "3", Name: "Big Fish", TypeID: "fish"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"zero matches all", Filter{}, "1,2,3"},
		{"by type", Filter{TypeID: "fish"}, "1,3"},
		{"by name glob", Filter{Name: "*FISH*"}, "1,3"},
		{"type and name", Filter{TypeID: "fish", Name: "big*"}, "3"},
		{"no match", Filter{TypeID: "sail"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(boats)
			if err != nil {
				t.Fatalf("Apply() = %v", err)
			}
			var ids []string
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			if strings.Join(ids, ",") != tt.want {
				t.Errorf("Apply() ids = %v, want %s", ids, tt.want)
			}
		})
	}
}

func TestFilter_KeyAndValidate(t *testing.T) {
	if (Filter{TypeID: "a", Name: "X*"}).Key() != (Filter{TypeID: "a", Name: "x*"}).Key() {
		t.Error("keys should ignore name case")
	}
	if (Filter{TypeID: "a"}).Key() == (Filter{TypeID: "b"}).Key() {
		t.Error("different types should have different keys")
	}
	if !(Filter{}).IsZero() || (Filter{TypeID: "a"}).IsZero() {
		t.Error("IsZero() mismatch")
	}
	if err := (Filter{Name: "[unterminated"}).Validate(); !errors.IsValidation(err) {
		t.Errorf("Validate() = %v, want validation error", err)
	}
}

func TestTypeOptions(t *testing.T) {
	opts := TypeOptions([]BoatType{{ID: "t-1", Name: "Sailboat"}})
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2", len(opts))
	}
	if opts[0].Label != AllTypesLabel || opts[0].Value != "" {
		t.Errorf("first option = %+v, want All Types", opts[0])
	}
	if opts[1].Value != "t-1" {
		t.Errorf("second option = %+v", opts[1])
	}
}

func TestFindType(t *testing.T) {
	types := []BoatType{
		{ID: "t-1", Name: "Sailboat"},
		{ID: "t-2", Name: "Fishing"},
		{ID: "t-3", Name: "Party Barge"},
	}

	tests := []struct {
		query  string
		wantID string
		wantOK bool
	}{
		{"t-2", "t-2", true},
		{"sailboat", "t-1", true},
		{"Fishin", "t-2", true},
		{"party barg", "t-3", true},
		{"submarine", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := FindType(types, tt.query)
			if ok != tt.wantOK || (ok && got.ID != tt.wantID) {
				t.Errorf("FindType(%q) = %+v, %v; want %s, %v", tt.query, got, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	if got := TypeName(" party barge "); got != "Party Barge" {
		t.Errorf("TypeName() = %q", got)
	}
}

func TestFormat(t *testing.T) {
	if got := FormatPrice(1250); !strings.Contains(got, "1,250") {
		t.Errorf("FormatPrice(1250) = %q", got)
	}
	if got := FormatLength(32.5); got != "32.5 ft" {
		t.Errorf("FormatLength(32.5) = %q", got)
	}
	if got := FormatMiles(3); got != "3.0 mi" {
		t.Errorf("FormatMiles(3) = %q", got)
	}
}

func TestDistanceMiles(t *testing.T) {
	sf := Location{Latitude: 37.7749, Longitude: -122.4194}
	la := Location{Latitude: 34.0522, Longitude: -118.2437}

	if d := DistanceMiles(sf, sf); d != 0 {
		t.Errorf("distance to self = %v", d)
	}
	d := DistanceMiles(sf, la)
	if math.Abs(d-347) > 5 {
		t.Errorf("SF to LA = %.1f miles, want about 347", d)
	}
	if math.Abs(d-DistanceMiles(la, sf)) > 1e-9 {
		t.Error("distance should be symmetric")
	}
}

func TestLocation_Validate(t *testing.T) {
	if err := (Location{Latitude: 91}).Validate(); !errors.IsValidation(err) {
		t.Error("latitude 91 should be rejected")
	}
	if err := (Location{Longitude: -181}).Validate(); !errors.IsValidation(err) {
		t.Error("longitude -181 should be rejected")
	}
	if err := (Location{Latitude: 45, Longitude: 90}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNearestAndMarkers(t *testing.T) {
	home := Location{Latitude: 0, Longitude: 0}
	boats := []Boat{
		{ID: "far", Name: "Far", Location: Location{Latitude: 10}},
		{ID: "near", Name: "Near", Location: Location{Latitude: 1}},
		{ID: "mid", Name: "Mid", Location: Location{Latitude: 5}},
	}

	got := Nearest(boats, home, 2)
	if len(got) != 2 || got[0].ID != "near" || got[1].ID != "mid" {
		t.Errorf("Nearest() = %+v", got)
	}
	if all := Nearest(boats, home, 0); len(all) != 3 {
		t.Errorf("Nearest(limit 0) returned %d boats", len(all))
	}

	markers := Markers(got, &home)
	if len(markers) != 3 || markers[0].Title != YouAreHere || markers[0].Icon != UserIcon {
		t.Errorf("Markers() = %+v", markers)
	}
	if markers[1].Title != "Near" {
		t.Errorf("second marker = %+v", markers[1])
	}
	if len(Markers(got, nil)) != 2 {
		t.Error("Markers without a user location should have one marker per boat")
	}
}
