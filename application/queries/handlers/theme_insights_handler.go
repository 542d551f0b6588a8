package handlers

import (
	"context"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
)

// ThemeInsightsHandler recomputes the theme clustering on every request;
// clusters are cheap and never cached.
type ThemeInsightsHandler struct {
	items     ports.ItemSource
	clusterer *services.ThemeClusterer
	logger    *zap.Logger
}

// NewThemeInsightsHandler creates the clustering handler.
func NewThemeInsightsHandler(items ports.ItemSource, clusterer *services.ThemeClusterer, logger *zap.Logger) *ThemeInsightsHandler {
	if clusterer == nil {
		clusterer = services.NewThemeClusterer(nil)
	}
	return &ThemeInsightsHandler{items: items, clusterer: clusterer, logger: logger}
}

// Handle clusters the user's notes by theme. An item-source failure
// degrades to an empty report rather than an error.
func (h *ThemeInsightsHandler) Handle(ctx context.Context, query *queries.ThemeInsightsQuery) (*queries.ThemeInsightsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notes, err := h.items.ItemsByKind(ctx, query.UserID, entities.KindNote)
	if err != nil {
		h.logger.Warn("theme clustering degraded to empty",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		notes = nil
	}

	return &queries.ThemeInsightsResult{ClusterReport: h.clusterer.Cluster(notes)}, nil
}
