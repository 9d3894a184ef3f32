package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
)

// Reviews returns a boat's reviews, newest first.
func (s *Store) Reviews(ctx context.Context, boatID string) ([]boat.Review, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, boat_id, subject, comment, rating, created_by_id, created_by_name, created_at
		 FROM reviews WHERE boat_id = ? ORDER BY created_at DESC, rowid DESC`, boatID)
	if err != nil {
		return nil, s.storeErr("list reviews", "reviews", err)
	}
	defer rows.Close()

	var reviews []boat.Review
	for rows.Next() {
		var r boat.Review
		if err := rows.Scan(&r.ID, &r.BoatID, &r.Subject, &r.Comment, &r.Rating,
			&r.CreatedByID, &r.CreatedByName, &r.CreatedAt); err != nil {
			return nil, s.storeErr("list reviews", "reviews", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("list reviews", "reviews", err)
	}
	return reviews, nil
}

// CreateReview validates and stores a review. The returned review carries
// its new id and creation time.
func (s *Store) CreateReview(ctx context.Context, r boat.Review) (boat.Review, error) {
	if err := s.checkOpen(); err != nil {
		return boat.Review{}, err
	}
	r.Subject = strings.TrimSpace(r.Subject)
	if err := r.Validate(); err != nil {
		return boat.Review{}, err
	}

	if _, err := s.Boat(ctx, r.BoatID); err != nil {
		return boat.Review{}, err
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, boat_id, subject, comment, rating, created_by_id, created_by_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BoatID, r.Subject, r.Comment, r.Rating, r.CreatedByID, r.CreatedByName, r.CreatedAt.UTC())
	if err != nil {
		return boat.Review{}, s.storeErr("create review", "reviews", err)
	}
	s.logger.Info("review created", "boat_id", r.BoatID, "review_id", r.ID, "rating", r.Rating)
	return r, nil
}

// ReviewSummary is the average rating of a boat.
type ReviewSummary struct {
	Count   int
	Average float64
}

// Summary returns the number of reviews and the average rating of a boat.
func (s *Store) Summary(ctx context.Context, boatID string) (ReviewSummary, error) {
	if err := s.checkOpen(); err != nil {
		return ReviewSummary{}, err
	}
	var sum ReviewSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE boat_id = ?`, boatID).
		Scan(&sum.Count, &sum.Average)
	if err != nil {
		return ReviewSummary{}, s.storeErr("review summary", "reviews", errors.Wrap(err, boatID))
	}
	return sum, nil
}
