package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"polymath-backend/application/commands"
	"polymath-backend/application/ports"
	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// MarkReviewedHandler applies the only persistent mutation the core owns:
// the read-increment-write on a note's review state.
type MarkReviewedHandler struct {
	reviews ports.ReviewStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewMarkReviewedHandler creates the handler.
func NewMarkReviewedHandler(reviews ports.ReviewStore, logger *zap.Logger) *MarkReviewedHandler {
	return &MarkReviewedHandler{
		reviews: reviews,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle marks the note reviewed and returns the updated state. Concurrent
// marks on the same note are last-write-wins.
func (h *MarkReviewedHandler) Handle(ctx context.Context, cmd *commands.MarkReviewedCommand) (*entities.ReviewState, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	state, err := h.reviews.MarkReviewed(ctx, cmd.UserID, cmd.NoteID, h.now())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "mark reviewed")
	}

	h.logger.Info("note marked reviewed",
		zap.String("user_id", cmd.UserID),
		zap.String("note_id", cmd.NoteID),
		zap.Int("review_count", state.ReviewCount),
	)
	return state, nil
}
