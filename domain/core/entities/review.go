package entities

import (
	"strings"
	"time"

	"polymath-backend/pkg/errors"
)

// ReviewState is the per-note bookkeeping that drives resurfacing.
//
// A note that has never been marked reviewed carries its creation time as
// LastReviewedAt, so fresh captures are not immediately overdue.
type ReviewState struct {
	NoteID         string    `json:"note_id"`
	ReviewCount    int       `json:"review_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// NewReviewState returns the initial state for a freshly captured note.
func NewReviewState(noteID string, createdAt time.Time) (*ReviewState, error) {
	if strings.TrimSpace(noteID) == "" {
		return nil, errors.NewValidationError("review state requires a note id")
	}
	if createdAt.IsZero() {
		return nil, errors.NewValidationError("review state requires the note creation time")
	}
	return &ReviewState{
		NoteID:         noteID,
		ReviewCount:    0,
		LastReviewedAt: createdAt,
	}, nil
}

// MarkReviewed applies the only mutation the core performs: increment the
// count and stamp the review time. Concurrent marks are last-write-wins.
func (r *ReviewState) MarkReviewed(now time.Time) {
	r.ReviewCount++
	r.LastReviewedAt = now
}

// DaysSinceReview returns whole days elapsed since the last review.
func (r *ReviewState) DaysSinceReview(now time.Time) int {
	if now.Before(r.LastReviewedAt) {
		return 0
	}
	return int(now.Sub(r.LastReviewedAt).Hours() / 24)
}
