package views

import (
	"context"
	"fmt"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

const similarErrorTitle = "Error loading similar boats"

// SimilarFinder finds boats similar to another.
type SimilarFinder interface {
	SimilarBoats(ctx context.Context, boatID string, by boat.SimilarBy) ([]boat.Boat, error)
}

// SimilarView lists the boats similar to one boat.
type SimilarView struct {
	deps   Deps
	svc    SimilarFinder
	logger *logging.Logger
	life   lifetime

	gen     Generation
	boatID  string
	by      boat.SimilarBy
	boats   []boat.Boat
	loading bool
}

// NewSimilarView creates the view for boatID.
func NewSimilarView(boatID string, by boat.SimilarBy, svc SimilarFinder, deps Deps) *SimilarView {
	deps = deps.withDefaults()
	if by == "" {
		by = boat.SimilarByType
	}
	return &SimilarView{
		deps:   deps,
		svc:    svc,
		logger: deps.Logger.WithComponent("similar"),
		life:   newLifetime(),
		boatID: boatID,
		by:     by,
	}
}

// Load fetches the similar boats.
func (v *SimilarView) Load() {
	id, by := v.boatID, v.by
	if id == "" {
		return
	}
	stamp := v.gen.Next()
	v.loading = true
	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		boats, err := v.svc.SimilarBoats(ctx, id, by)
		return func() {
			if !v.gen.IsCurrent(stamp) {
				return
			}
			v.loading = false
			if err != nil {
				err = asFetchError("load similar boats", id, err)
				v.logger.Warn("fetch failed", "boat_id", id, "by", string(by), "error", err.Error())
				v.deps.Notifier.Notice(errorNotice(similarErrorTitle, err))
				return
			}
			v.boats = boats
		}
	})
}

// SetSimilarBy changes the attribute and reloads.
func (v *SimilarView) SetSimilarBy(by boat.SimilarBy) {
	v.by = by
	v.boats = nil
	v.Load()
}

// Title returns the heading, e.g. "Similar boats by Type".
func (v *SimilarView) Title() string {
	return fmt.Sprintf("Similar boats by %s", v.by)
}

// Boats returns the similar boats.
func (v *SimilarView) Boats() []boat.Boat { return v.boats }

// NoBoats reports whether a finished load found nothing.
func (v *SimilarView) NoBoats() bool { return !v.loading && len(v.boats) == 0 }

// Loading reports whether a fetch is in flight.
func (v *SimilarView) Loading() bool { return v.loading }

// Open navigates to a similar boat's page.
func (v *SimilarView) Open(boatID string) {
	if boatID == "" {
		return
	}
	v.deps.Navigator.Navigate(notify.BoatRecord(boatID))
}

// Close cancels in-flight work.
func (v *SimilarView) Close() {
	v.life.cancel()
	v.gen.Invalidate()
}
