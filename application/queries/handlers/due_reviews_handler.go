package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
)

// DueReviewsHandler computes the spaced-repetition resurfacing queue.
type DueReviewsHandler struct {
	items     ports.ItemSource
	reviews   ports.ReviewStore
	scheduler *services.ReviewScheduler
	logger    *zap.Logger
	now       func() time.Time
}

// NewDueReviewsHandler creates the handler.
func NewDueReviewsHandler(items ports.ItemSource, reviews ports.ReviewStore, logger *zap.Logger) *DueReviewsHandler {
	return &DueReviewsHandler{
		items:     items,
		reviews:   reviews,
		scheduler: services.NewReviewScheduler(),
		logger:    logger,
		now:       time.Now,
	}
}

// Handle evaluates the full note set. Upstream trouble degrades to an empty
// due-list, never an error.
func (h *DueReviewsHandler) Handle(ctx context.Context, query *queries.DueReviewsQuery) (*queries.DueReviewsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notes, err := h.items.ItemsByKind(ctx, query.UserID, entities.KindNote)
	if err != nil {
		h.logger.Warn("review queue degraded: item source unavailable",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		return &queries.DueReviewsResult{Due: []*entities.DueNote{}}, nil
	}

	states, err := h.reviews.States(ctx, query.UserID)
	if err != nil {
		h.logger.Warn("review states unavailable, falling back to creation times",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		states = map[string]*entities.ReviewState{}
	}

	due := h.scheduler.DueNotes(notes, states, h.now())
	return &queries.DueReviewsResult{Due: due, Total: len(due)}, nil
}
