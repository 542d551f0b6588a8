package commands

import "polymath-backend/pkg/errors"

// MarkReviewedCommand records that the user reviewed a resurfaced note.
type MarkReviewedCommand struct {
	UserID string `json:"user_id"`
	NoteID string `json:"note_id"`
}

// Validate checks required fields.
func (c *MarkReviewedCommand) Validate() error {
	if c.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	if c.NoteID == "" {
		return errors.NewValidationError("note id is required")
	}
	return nil
}

// InvalidateInsightsCommand drops every cached insight for a user. Issued
// when an item deletion must cascade into derived data.
type InvalidateInsightsCommand struct {
	UserID string `json:"user_id"`
}

// Validate checks required fields.
func (c *InvalidateInsightsCommand) Validate() error {
	if c.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	return nil
}
