package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"polymath-backend/application/commands"
	cmdhandlers "polymath-backend/application/commands/handlers"
	"polymath-backend/application/queries"
	apphandlers "polymath-backend/application/queries/handlers"
	"polymath-backend/pkg/auth"
	"polymath-backend/pkg/common"
	"polymath-backend/pkg/observability"
)

// ReviewHandler handles resurfacing HTTP requests
type ReviewHandler struct {
	due     *apphandlers.DueReviewsHandler
	mark    *cmdhandlers.MarkReviewedHandler
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	due *apphandlers.DueReviewsHandler,
	mark *cmdhandlers.MarkReviewedHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{due: due, mark: mark, metrics: metrics, logger: logger}
}

// DueReviews handles GET /reviews/due
func (h *ReviewHandler) DueReviews(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	result, err := h.due.Handle(r.Context(), &queries.DueReviewsQuery{UserID: userCtx.UserID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// MarkReviewed handles POST /reviews/{noteID}
func (h *ReviewHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	noteID := chi.URLParam(r, "noteID")
	if _, err := uuid.Parse(noteID); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_NOTE_ID", "Invalid note ID format")
		return
	}

	cmd := &commands.MarkReviewedCommand{
		UserID: userCtx.UserID,
		NoteID: noteID,
	}

	state, err := h.mark.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.metrics.ReviewsMarked.Inc()
	common.RespondJSON(w, http.StatusOK, state)
}
