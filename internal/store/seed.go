package store

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
)

//go:embed seed/fleet.yaml
var defaultFleet []byte

// Fleet is a seed file: boat types, boats and their reviews.
type Fleet struct {
	Types   []string     `yaml:"types"`
	Boats   []boat.Boat  `yaml:"boats"`
	Reviews []SeedReview `yaml:"reviews"`
}

// SeedReview is a review in a seed file.
type SeedReview struct {
	BoatID  string `yaml:"boat"`
	Subject string `yaml:"subject"`
	Comment string `yaml:"comment"`
	Rating  int    `yaml:"rating"`
	Author  string `yaml:"author"`
}

// DefaultFleet returns the fleet bundled with the binary.
func DefaultFleet() (*Fleet, error) {
	return ParseFleet(bytes.NewReader(defaultFleet))
}

// LoadFleet reads a seed file from disk.
func LoadFleet(path string) (*Fleet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open seed file %s", path)
	}
	defer f.Close()
	return ParseFleet(f)
}

// ParseFleet decodes a seed file. Unknown keys are rejected.
func ParseFleet(r io.Reader) (*Fleet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fleet Fleet
	if err := dec.Decode(&fleet); err != nil && err != io.EOF {
		return nil, errors.NewValidationError("invalid seed file").WithCause(err)
	}
	return &fleet, nil
}

// SeedResult counts what Seed inserted.
type SeedResult struct {
	Types   int
	Boats   int
	Reviews int
	Skipped bool
}

// Seed loads fleet into the store. Unless force is set, a store that
// already holds boats is left untouched.
func (s *Store) Seed(ctx context.Context, fleet *Fleet, force bool) (SeedResult, error) {
	var res SeedResult
	if fleet == nil {
		return res, nil
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return res, err
	}
	if stats.Boats > 0 && !force {
		res.Skipped = true
		return res, nil
	}

	typeIDs := make(map[string]string)
	ensure := func(name string) (string, error) {
		key := boat.TypeName(name)
		if id, ok := typeIDs[key]; ok {
			return id, nil
		}
		t, err := s.EnsureBoatType(ctx, key)
		if err != nil {
			return "", err
		}
		typeIDs[key] = t.ID
		res.Types++
		return t.ID, nil
	}

	for _, name := range fleet.Types {
		if _, err := ensure(name); err != nil {
			return res, err
		}
	}

	for _, b := range fleet.Boats {
		if b.TypeName != "" {
			id, err := ensure(b.TypeName)
			if err != nil {
				return res, err
			}
			b.TypeID = id
		}
		if b.ID != "" {
			if _, err := s.Boat(ctx, b.ID); err == nil {
				continue
			}
		}
		if _, err := s.CreateBoat(ctx, b); err != nil {
			return res, errors.Wrapf(err, "seed boat %q", b.Name)
		}
		res.Boats++
	}

	for _, r := range fleet.Reviews {
		_, err := s.CreateReview(ctx, boat.Review{
			BoatID:        r.BoatID,
			Subject:       r.Subject,
			Comment:       r.Comment,
			Rating:        r.Rating,
			CreatedByName: r.Author,
		})
		if err != nil {
			return res, errors.Wrapf(err, "seed review %q", r.Subject)
		}
		res.Reviews++
	}

	s.logger.Info("store seeded", "types", res.Types, "boats", res.Boats, "reviews", res.Reviews)
	return res, nil
}
