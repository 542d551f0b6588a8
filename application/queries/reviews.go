package queries

import (
	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// DueReviewsQuery asks which notes are due for resurfacing right now.
type DueReviewsQuery struct {
	UserID string `json:"user_id"`
}

// Validate checks required fields.
func (q *DueReviewsQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	return nil
}

// DueReviewsResult is the ranked resurfacing queue, at most the scheduler's
// due limit long.
type DueReviewsResult struct {
	Due   []*entities.DueNote `json:"due"`
	Total int                 `json:"total"`
}
