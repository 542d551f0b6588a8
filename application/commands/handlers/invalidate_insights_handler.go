package handlers

import (
	"context"

	"go.uber.org/zap"

	"polymath-backend/application/commands"
	"polymath-backend/application/ports"
	"polymath-backend/pkg/errors"
)

// InvalidateInsightsHandler cascades an item deletion into the derived
// layer by dropping the user's cached insights.
type InvalidateInsightsHandler struct {
	cache  ports.InsightCache
	logger *zap.Logger
}

// NewInvalidateInsightsHandler creates the handler.
func NewInvalidateInsightsHandler(cache ports.InsightCache, logger *zap.Logger) *InvalidateInsightsHandler {
	return &InvalidateInsightsHandler{cache: cache, logger: logger}
}

// Handle drops all cached insights for the user.
func (h *InvalidateInsightsHandler) Handle(ctx context.Context, cmd *commands.InvalidateInsightsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.cache.InvalidateUser(ctx, cmd.UserID); err != nil {
		return errors.Wrap(err, "invalidate insights")
	}
	h.logger.Info("insight cache invalidated", zap.String("user_id", cmd.UserID))
	return nil
}
