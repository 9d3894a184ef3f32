package views

import (
	"context"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

// ReviewLister reads reviews.
type ReviewLister interface {
	Reviews(ctx context.Context, boatID string) ([]boat.Review, error)
}

const reviewsErrorTitle = "Error loading reviews"

// ReviewsView lists the reviews of one boat, newest first.
type ReviewsView struct {
	deps   Deps
	svc    ReviewLister
	logger *logging.Logger
	life   lifetime

	gen     Generation
	boatID  string
	reviews []boat.Review
	loading bool
	err     error
}

// NewReviewsView creates an empty reviews list.
func NewReviewsView(svc ReviewLister, deps Deps) *ReviewsView {
	deps = deps.withDefaults()
	return &ReviewsView{
		deps:   deps,
		svc:    svc,
		logger: deps.Logger.WithComponent("reviews"),
		life:   newLifetime(),
	}
}

// Load shows the reviews of boatID. An empty id clears the list.
func (v *ReviewsView) Load(boatID string) {
	if boatID != v.boatID {
		v.reviews = nil
	}
	v.boatID = boatID
	if boatID == "" {
		v.gen.Invalidate()
		v.loading = false
		v.err = nil
		return
	}
	v.fetch()
}

// Refresh drops the cached reviews of the current boat and re-fetches them.
func (v *ReviewsView) Refresh() {
	if v.boatID == "" {
		return
	}
	v.deps.Invalidator.NotifyCreated(v.boatID)
	v.fetch()
}

func (v *ReviewsView) fetch() {
	id := v.boatID
	stamp := v.gen.Next()
	v.loading = true
	v.deps.Exec.Go(v.life.ctx, func(ctx context.Context) func() {
		reviews, err := v.svc.Reviews(ctx, id)
		return func() {
			if !v.gen.IsCurrent(stamp) {
				return
			}
			v.loading = false
			v.err = err
			if err != nil {
				err = asFetchError("load reviews", id, err)
				v.err = err
				v.logger.Warn("fetch failed", "boat_id", id, "error", err.Error())
				v.deps.Notifier.Notice(errorNotice(reviewsErrorTitle, err))
				return
			}
			v.reviews = reviews
		}
	})
}

// BoatID returns the boat whose reviews are shown.
func (v *ReviewsView) BoatID() string { return v.boatID }

// Reviews returns the loaded reviews.
func (v *ReviewsView) Reviews() []boat.Review { return v.reviews }

// HasReviews reports whether there is anything to show.
func (v *ReviewsView) HasReviews() bool { return len(v.reviews) > 0 }

// Loading reports whether a fetch is in flight.
func (v *ReviewsView) Loading() bool { return v.loading }

// Err returns the error of the last fetch.
func (v *ReviewsView) Err() error { return v.err }

// OpenAuthor navigates to the page of a review's author.
func (v *ReviewsView) OpenAuthor(userID string) {
	if userID == "" {
		return
	}
	v.deps.Navigator.Navigate(notify.UserRecord(userID))
}

// Close cancels in-flight work.
func (v *ReviewsView) Close() {
	v.life.cancel()
	v.gen.Invalidate()
}
