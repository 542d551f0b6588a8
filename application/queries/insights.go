package queries

import (
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
	"polymath-backend/pkg/errors"
)

// Cache key suffixes, one per insight family.
const (
	CacheKeyTemporal  = "temporal"
	CacheKeyEvolution = "evolution"
)

// ThemeInsightsQuery asks for the current theme clustering of a user's items.
type ThemeInsightsQuery struct {
	UserID string `json:"user_id"`
}

// Validate checks required fields.
func (q *ThemeInsightsQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	return nil
}

// TemporalInsightsQuery asks for temporal pattern insights.
type TemporalInsightsQuery struct {
	UserID string `json:"user_id"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks required fields.
func (q *TemporalInsightsQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	return nil
}

// EvolutionInsightsQuery asks for evolution/contradiction insights.
type EvolutionInsightsQuery struct {
	UserID string `json:"user_id"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks required fields.
func (q *EvolutionInsightsQuery) Validate() error {
	if q.UserID == "" {
		return errors.NewValidationError("user id is required")
	}
	return nil
}

// InsightsResult is the shared shape of the pattern detector responses.
// Either Insights is populated or InsufficientData explains what is missing;
// the latter is a typed empty result, not an error.
type InsightsResult struct {
	Insights         []*entities.PatternInsight `json:"insights"`
	InsufficientData *entities.InsufficientData `json:"insufficient_data,omitempty"`
	Cached           bool                       `json:"cached"`
}

// ThemeInsightsResult is the clustering response.
type ThemeInsightsResult struct {
	*services.ClusterReport
}
