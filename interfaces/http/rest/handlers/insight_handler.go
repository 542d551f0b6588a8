package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"polymath-backend/application/commands"
	cmdhandlers "polymath-backend/application/commands/handlers"
	"polymath-backend/application/queries"
	apphandlers "polymath-backend/application/queries/handlers"
	"polymath-backend/pkg/auth"
	"polymath-backend/pkg/common"
	"polymath-backend/pkg/observability"
)

// InsightHandler handles derived-insight HTTP requests
type InsightHandler struct {
	themes     *apphandlers.ThemeInsightsHandler
	temporal   *apphandlers.TemporalInsightsHandler
	evolution  *apphandlers.EvolutionInsightsHandler
	invalidate *cmdhandlers.InvalidateInsightsHandler
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(
	themes *apphandlers.ThemeInsightsHandler,
	temporal *apphandlers.TemporalInsightsHandler,
	evolution *apphandlers.EvolutionInsightsHandler,
	invalidate *cmdhandlers.InvalidateInsightsHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *InsightHandler {
	return &InsightHandler{
		themes:     themes,
		temporal:   temporal,
		evolution:  evolution,
		invalidate: invalidate,
		metrics:    metrics,
		logger:     logger,
	}
}

// Themes handles GET /insights/themes
func (h *InsightHandler) Themes(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	result, err := h.themes.Handle(r.Context(), &queries.ThemeInsightsQuery{UserID: userCtx.UserID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.metrics.InsightsComputed.WithLabelValues("themes").Inc()
	common.RespondJSON(w, http.StatusOK, result)
}

// Temporal handles GET /insights/temporal?refresh=true
func (h *InsightHandler) Temporal(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	query := &queries.TemporalInsightsQuery{
		UserID:  userCtx.UserID,
		Refresh: r.URL.Query().Get("refresh") == "true",
	}

	result, err := h.temporal.Handle(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.countCacheOutcome(result.Cached)
	h.metrics.InsightsComputed.WithLabelValues("temporal").Inc()
	common.RespondJSON(w, http.StatusOK, result)
}

// Evolution handles GET /insights/evolution?refresh=true
func (h *InsightHandler) Evolution(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	query := &queries.EvolutionInsightsQuery{
		UserID:  userCtx.UserID,
		Refresh: r.URL.Query().Get("refresh") == "true",
	}

	result, err := h.evolution.Handle(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.countCacheOutcome(result.Cached)
	h.metrics.InsightsComputed.WithLabelValues("evolution").Inc()
	common.RespondJSON(w, http.StatusOK, result)
}

// InvalidateCache handles DELETE /insights/cache
func (h *InsightHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	cmd := &commands.InvalidateInsightsCommand{UserID: userCtx.UserID}
	if err := h.invalidate.Handle(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *InsightHandler) countCacheOutcome(cached bool) {
	if cached {
		h.metrics.CacheHits.Inc()
	} else {
		h.metrics.CacheMisses.Inc()
	}
}
