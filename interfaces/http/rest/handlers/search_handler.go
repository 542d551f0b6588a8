package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"polymath-backend/application/queries"
	apphandlers "polymath-backend/application/queries/handlers"
	"polymath-backend/pkg/auth"
	"polymath-backend/pkg/common"
	"polymath-backend/pkg/observability"
	"polymath-backend/pkg/utils"
)

// SearchRequest is the POST body form of a search, used when the query or
// surrounding context is too long for a URL.
type SearchRequest struct {
	Query   string `json:"query" validate:"required,min=2,max=500"`
	Context string `json:"context" validate:"max=2000"`
}

// SearchHandler handles unified search HTTP requests
type SearchHandler struct {
	search  *apphandlers.SearchHandler
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *apphandlers.SearchHandler, metrics *observability.Collector, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{search: search, metrics: metrics, logger: logger}
}

// Search handles GET /search?q=...&context=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	query := &queries.UnifiedSearchQuery{
		UserID:  userCtx.UserID,
		Query:   r.URL.Query().Get("q"),
		Context: r.URL.Query().Get("context"),
	}

	result, err := h.search.Handle(r.Context(), query)
	if err != nil {
		h.metrics.SearchQueries.WithLabelValues("rejected").Inc()
		common.RespondAppError(w, err)
		return
	}

	h.metrics.SearchQueries.WithLabelValues("ok").Inc()
	for _, kind := range result.Degraded {
		h.metrics.SearchDegraded.WithLabelValues(kind).Inc()
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SearchPost handles POST /search with a JSON body.
func (h *SearchHandler) SearchPost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req SearchRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	query := &queries.UnifiedSearchQuery{
		UserID:  userCtx.UserID,
		Query:   req.Query,
		Context: req.Context,
	}

	result, err := h.search.Handle(r.Context(), query)
	if err != nil {
		h.metrics.SearchQueries.WithLabelValues("rejected").Inc()
		common.RespondAppError(w, err)
		return
	}

	h.metrics.SearchQueries.WithLabelValues("ok").Inc()
	for _, kind := range result.Degraded {
		h.metrics.SearchDegraded.WithLabelValues(kind).Inc()
	}
	common.RespondJSON(w, http.StatusOK, result)
}
