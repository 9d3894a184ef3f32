package views

import (
	"testing"

	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/notify"
)

func TestReviewForm_SubmitSuccess(t *testing.T) {
	h := newHarness()
	svc := fleet()
	f := NewReviewForm("b-sea-breeze", svc, h.deps())
	defer f.Close()

	f.SetSubject("Great boat")
	f.SetComment("Smooth ride")
	f.Rating().Click(4)
	f.Submit()
	if !f.Submitting() {
		t.Error("Submitting() = false while the create call is pending")
	}
	h.exec.ResolveAll()

	if f.Subject() != "" || f.Comment() != "" || f.Rating().Value() != 0 {
		t.Errorf("fields not reset: subject=%q comment=%q rating=%d",
			f.Subject(), f.Comment(), f.Rating().Value())
	}
	if got := h.count(event.KindCreated); got != 1 {
		t.Fatalf("created messages = %d, want 1", got)
	}
	msg := h.msgs[len(h.msgs)-1].(event.ReviewMessage)
	if msg.BoatID != "b-sea-breeze" || msg.ReviewID == "" {
		t.Errorf("created message = %+v", msg)
	}
	n, _ := h.rec.Last()
	if n.Title != "Review Created!" || n.Variant != notify.Success {
		t.Errorf("Last() = %+v", n)
	}
	if len(h.hints.created) != 1 || h.hints.created[0] != "b-sea-breeze" {
		t.Errorf("NotifyCreated calls = %v", h.hints.created)
	}
	r, ok := f.LastCreated()
	if !ok || r.Rating != 4 || r.Subject != "Great boat" {
		t.Errorf("LastCreated() = %+v", r)
	}
}

func TestReviewForm_ResetDoesNotCallOnChange(t *testing.T) {
	h := newHarness()
	f := NewReviewForm("b-sea-breeze", fleet(), h.deps())
	defer f.Close()

	f.Rating().Click(3)
	f.Reset()
	if f.Rating().Value() != 0 {
		t.Errorf("rating = %d after Reset, want 0", f.Rating().Value())
	}
}

func TestReviewForm_LocalValidation(t *testing.T) {
	tests := []struct {
		name    string
		boatID  string
		subject string
	}{
		{"blank subject", "b-sea-breeze", "   "},
		{"no boat", "", "Great boat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			f := NewReviewForm(tt.boatID, fleet(), h.deps())
			defer f.Close()

			f.SetSubject(tt.subject)
			f.Rating().Click(2)
			f.Submit()

			if !errors.IsValidation(f.Err()) {
				t.Errorf("Err() = %v, want a validation error", f.Err())
			}
			if h.exec.Scheduled() != 0 {
				t.Error("create called despite invalid input")
			}
			if f.Subject() != tt.subject || f.Rating().Value() != 2 {
				t.Error("fields changed by a rejected submit")
			}
			if len(h.msgs) != 0 {
				t.Errorf("published %d messages", len(h.msgs))
			}
		})
	}
}

func TestReviewForm_SubmitFailure(t *testing.T) {
	h := newHarness()
	svc := fleet()
	svc.createErr = errors.NewStoreError("insert review", errors.New("database is locked")).WithRetryable(true)
	f := NewReviewForm("b-sea-breeze", svc, h.deps())
	defer f.Close()

	f.SetSubject("Great boat")
	f.Rating().Click(4)
	f.Submit()
	h.exec.ResolveAll()

	if f.Err() == nil {
		t.Fatal("Err() = nil after failed create")
	}
	if f.Subject() != "Great boat" || f.Rating().Value() != 4 {
		t.Error("fields reset after a failed create")
	}
	if got := h.count(event.KindCreated); got != 0 {
		t.Errorf("created messages = %d, want 0", got)
	}
	if got := h.rec.Count(notify.Error); got != 1 {
		t.Errorf("error notices = %d, want 1", got)
	}
	if f.Submitting() {
		t.Error("Submitting() = true after the call finished")
	}
}

func TestReviewForm_DoubleSubmit(t *testing.T) {
	h := newHarness()
	f := NewReviewForm("b-sea-breeze", fleet(), h.deps())
	defer f.Close()

	f.SetSubject("Great boat")
	f.Submit()
	f.Submit()
	if got := h.exec.Scheduled(); got != 1 {
		t.Errorf("Scheduled() = %d, want 1", got)
	}
}

func TestReviewForm_RefreshesDetail(t *testing.T) {
	h := newHarness()
	svc := fleet()
	dv := newDetail(h, svc)
	defer dv.Close()
	f := NewReviewForm("b-sea-breeze", svc, h.deps())
	defer f.Close()

	h.sel.Select("b-sea-breeze")
	h.exec.ResolveAll()
	dv.SetActiveTab(TabAddReview)

	f.SetSubject("Great boat")
	f.Rating().Click(4)
	f.Submit()
	h.exec.ResolveAll()

	if dv.ActiveTab() != TabReviews {
		t.Errorf("ActiveTab() = %q, want %q", dv.ActiveTab(), TabReviews)
	}
	reviews := dv.Reviews().Reviews()
	if len(reviews) != 1 || reviews[0].Subject != "Great boat" {
		t.Errorf("reviews tab = %+v", reviews)
	}
}
