package views

import (
	"context"
	"strings"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/rating"
)

// ReviewCreator creates reviews.
type ReviewCreator interface {
	CreateReview(ctx context.Context, r boat.Review) (boat.Review, error)
}

const (
	reviewCreatedTitle = "Review Created!"
	reviewErrorTitle   = "Error creating review"
)

// ReviewForm is the add review tab. A successful submit resets the form
// and announces the new review on the review channel.
type ReviewForm struct {
	deps   Deps
	svc    ReviewCreator
	logger *logging.Logger
	life   lifetime

	boatID     string
	subject    string
	comment    string
	author     string
	stars      *rating.Widget
	submitting bool
	err        error
	last       *boat.Review
}

// NewReviewForm creates an empty form for boatID.
func NewReviewForm(boatID string, svc ReviewCreator, deps Deps) *ReviewForm {
	deps = deps.withDefaults()
	return &ReviewForm{
		deps:   deps,
		svc:    svc,
		logger: deps.Logger.WithComponent("review_form"),
		life:   newLifetime(),
		boatID: boatID,
		stars:  rating.New(rating.Options{Max: boat.MaxRating}),
	}
}

// SetBoat points the form at another boat. Typed values are kept.
func (f *ReviewForm) SetBoat(boatID string) {
	f.boatID = boatID
	f.err = nil
}

// SetAuthor sets the name new reviews are signed with.
func (f *ReviewForm) SetAuthor(name string) { f.author = name }

// SetSubject sets the subject field.
func (f *ReviewForm) SetSubject(s string) { f.subject = s }

// SetComment sets the comment field.
func (f *ReviewForm) SetComment(s string) { f.comment = s }

// Rating returns the form's star widget.
func (f *ReviewForm) Rating() *rating.Widget { return f.stars }

// Submit validates the fields and creates the review. It does nothing while
// a previous submit is still in flight.
func (f *ReviewForm) Submit() {
	if f.submitting {
		return
	}
	r := boat.Review{
		BoatID:        f.boatID,
		Subject:       strings.TrimSpace(f.subject),
		Comment:       f.comment,
		Rating:        f.stars.Value(),
		CreatedByName: f.author,
	}
	if err := r.Validate(); err != nil {
		f.err = err
		return
	}
	f.err = nil
	f.submitting = true

	f.deps.Exec.Go(f.life.ctx, func(ctx context.Context) func() {
		created, err := f.svc.CreateReview(ctx, r)
		return func() { f.submitted(created, err) }
	})
}

func (f *ReviewForm) submitted(created boat.Review, err error) {
	f.submitting = false
	if err != nil {
		f.err = err
		f.logger.Warn("create review failed", "boat_id", f.boatID, "error", err.Error())
		f.deps.Notifier.Notice(errorNotice(reviewErrorTitle, err))
		return
	}

	f.last = &created
	f.logger.Info("review created", "boat_id", created.BoatID, "review_id", created.ID)
	f.deps.Notifier.Notice(notify.Notice{Title: reviewCreatedTitle, Variant: notify.Success})
	f.deps.Invalidator.NotifyCreated(created.BoatID)
	f.Reset()

	if f.deps.Bus != nil {
		if err := f.deps.Bus.Publish(event.NewReviewCreatedMessage(created.BoatID, created.ID)); err != nil {
			f.logger.Warn("review message rejected", "error", err.Error())
		}
	}
}

// Reset clears the fields.
func (f *ReviewForm) Reset() {
	f.subject = ""
	f.comment = ""
	f.stars.Set(0)
	f.err = nil
}

// BoatID returns the boat reviews are created for.
func (f *ReviewForm) BoatID() string { return f.boatID }

// Subject returns the subject field.
func (f *ReviewForm) Subject() string { return f.subject }

// Comment returns the comment field.
func (f *ReviewForm) Comment() string { return f.comment }

// Submitting reports whether a create call is in flight.
func (f *ReviewForm) Submitting() bool { return f.submitting }

// Err returns the inline error of the last submit.
func (f *ReviewForm) Err() error { return f.err }

// LastCreated returns the review created by the last successful submit.
func (f *ReviewForm) LastCreated() (boat.Review, bool) {
	if f.last == nil {
		return boat.Review{}, false
	}
	return *f.last, true
}

// Close cancels an in-flight submit.
func (f *ReviewForm) Close() { f.life.cancel() }
