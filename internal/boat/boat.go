// Package boat holds the rental domain model: boats, boat types, reviews,
// and the service contract the views fetch them through.
package boat

import (
	"context"
	"strings"
	"time"

	"github.com/Josh-Grafman/boatrental/internal/errors"
)

// Boat is a rentable boat. Views treat a fetched Boat as immutable; it
// changes only through Service.UpdateBoats.
type Boat struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	TypeID      string    `json:"type_id" yaml:"type_id"`
	TypeName    string    `json:"type_name,omitempty" yaml:"type,omitempty"`
	OwnerName   string    `json:"owner_name,omitempty" yaml:"owner,omitempty"`
	Price       float64   `json:"price" yaml:"price"`
	Length      float64   `json:"length" yaml:"length"`
	Year        int       `json:"year,omitempty" yaml:"year,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Picture     string    `json:"picture,omitempty" yaml:"picture,omitempty"`
	Location    Location  `json:"location" yaml:"location"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// BoatType is a category of boat, such as "Fishing" or "Sailboat".
type BoatType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MaxRating is the highest star rating a review can carry.
const MaxRating = 5

// Review is a user's opinion of a boat.
type Review struct {
	ID            string    `json:"id"`
	BoatID        string    `json:"boat_id"`
	Subject       string    `json:"subject"`
	Comment       string    `json:"comment,omitempty"`
	Rating        int       `json:"rating"`
	CreatedByID   string    `json:"created_by_id,omitempty"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks a review before it is stored.
func (r Review) Validate() error {
	if r.BoatID == "" {
		return errors.NewValidationError("a review needs a boat").WithField("boat_id")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.NewValidationError("Subject is required").WithField("subject")
	}
	if r.Rating < 0 || r.Rating > MaxRating {
		return errors.NewValidationError("Rating must be between 0 and 5").
			WithField("rating").WithValue(r.Rating)
	}
	return nil
}

// Patch is a partial update to one boat. Nil fields are left unchanged.
type Patch struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Length == nil && p.Price == nil && p.Description == nil
}

// Validate checks the patch on its own, without looking at the stored boat.
func (p Patch) Validate() error {
	var errs errors.ValidationErrors
	if p.ID == "" {
		errs = append(errs, errors.NewValidationError("a patch needs a boat id").WithField("id"))
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, errors.NewValidationError("Name cannot be blank").
			WithField("name").WithRecord(p.ID))
	}
	if p.Length != nil && *p.Length <= 0 {
		errs = append(errs, errors.NewValidationError("Length must be positive").
			WithField("length").WithValue(*p.Length).WithRecord(p.ID))
	}
	if p.Price != nil && *p.Price < 0 {
		errs = append(errs, errors.NewValidationError("Price cannot be negative").
			WithField("price").WithValue(*p.Price).WithRecord(p.ID))
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Apply returns b with the patch's fields applied.
func (p Patch) Apply(b Boat) Boat {
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	if p.Length != nil {
		b.Length = *p.Length
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	return b
}

// IDs returns the boat ids the patches touch, in order.
func IDs(patches []Patch) []string {
	ids := make([]string, 0, len(patches))
	for _, p := range patches {
		ids = append(ids, p.ID)
	}
	return ids
}

// SimilarBy is the attribute similar boats are matched on.
type SimilarBy string

const (
	SimilarByType   SimilarBy = "Type"
	SimilarByPrice  SimilarBy = "Price"
	SimilarByLength SimilarBy = "Length"
)

const (
	// SimilarPriceRange is how far a similar boat's price may differ.
	SimilarPriceRange = 100.0
	// SimilarLengthRange is how far a similar boat's length may differ.
	SimilarLengthRange = 5.0
)

// ParseSimilarBy accepts the attribute name in any case.
func ParseSimilarBy(s string) (SimilarBy, error) {
	for _, v := range []SimilarBy{SimilarByType, SimilarByPrice, SimilarByLength} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", errors.NewValidationError("similar-by must be Type, Price or Length").
		WithField("similar_by").WithValue(s)
}

// Similar reports whether other is similar to b by the given attribute.
// A boat is never similar to itself.
func Similar(b, other Boat, by SimilarBy) bool {
	if b.ID == other.ID {
		return false
	}
	switch by {
	case SimilarByType:
		return b.TypeID != "" && b.TypeID == other.TypeID
	case SimilarByPrice:
		return within(other.Price, b.Price, SimilarPriceRange)
	case SimilarByLength:
		return within(other.Length, b.Length, SimilarLengthRange)
	}
	return false
}

func within(v, center, radius float64) bool {
	return v >= center-radius && v <= center+radius
}

// Reader fetches boats.
type Reader interface {
	// Boat returns one boat. A missing boat yields an error for which
	// errors.IsNotFound is true.
	Boat(ctx context.Context, id string) (Boat, error)
	// Boats returns the boats matching f, ordered by name.
	Boats(ctx context.Context, f Filter) ([]Boat, error)
}

// Updater applies batches of patches atomically.
type Updater interface {
	UpdateBoats(ctx context.Context, patches []Patch) error
}

// TypeLister lists boat types.
type TypeLister interface {
	BoatTypes(ctx context.Context) ([]BoatType, error)
}

// ReviewStore reads and creates reviews.
type ReviewStore interface {
	// Reviews returns a boat's reviews, newest first.
	Reviews(ctx context.Context, boatID string) ([]Review, error)
	CreateReview(ctx context.Context, r Review) (Review, error)
}

// Finder runs the relational boat queries.
type Finder interface {
	SimilarBoats(ctx context.Context, boatID string, by SimilarBy) ([]Boat, error)
	BoatsNear(ctx context.Context, from Location, typeID string, limit int) ([]Boat, error)
}

// Invalidator receives cache hints after a write so later reads see fresh
// data.
type Invalidator interface {
	// NotifyCreated reports that a record belonging to boatID was created.
	NotifyCreated(boatID string)
	// NotifyUpdated reports that the given boats changed. No ids means
	// every boat.
	NotifyUpdated(boatIDs ...string)
}

// Service is everything the rental views need from the data layer.
type Service interface {
	Reader
	Updater
	TypeLister
	ReviewStore
	Finder
}
