package queries

import (
	"time"

	"polymath-backend/pkg/errors"
)

// UnifiedSearchQuery asks for one ranked list across notes, projects, and
// articles.
type UnifiedSearchQuery struct {
	UserID string `json:"user_id"`

	// Query is the raw search string; at least 2 characters after trimming.
	Query string `json:"query"`

	// Context optionally augments the text used to derive the query
	// embedding. Empty means the query alone is embedded.
	Context string `json:"context,omitempty"`
}

// Validate rejects structurally invalid queries before any scoring.
func (q *UnifiedSearchQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	if q.Query == "" {
		return errors.NewInvalidQueryError("query is required")
	}
	return nil
}

// SearchResult is one ranked hit. Ephemeral, computed per query.
type SearchResult struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// UnifiedSearchResult is the merged ranking plus a per-kind breakdown. A
// failed per-kind fetch shows up as a lower breakdown count, never as an
// overall error.
type UnifiedSearchResult struct {
	Results   []SearchResult `json:"results"`
	Breakdown map[string]int `json:"breakdown"`
	Total     int            `json:"total"`

	// Degraded lists branches that contributed no results due to an
	// upstream failure.
	Degraded []string `json:"degraded,omitempty"`
}
