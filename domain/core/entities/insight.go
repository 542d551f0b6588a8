package entities

import (
	"strings"
	"time"

	"polymath-backend/pkg/errors"
)

// InsightType names a category of derived observation.
type InsightType string

const (
	InsightBestThinkingTime InsightType = "best_thinking_time"
	InsightThoughtVelocity  InsightType = "thought_velocity"
	InsightOffHours         InsightType = "off_hours"
	InsightSentiment        InsightType = "sentiment_continuity"
	InsightCollision        InsightType = "collision"
	InsightEvolution        InsightType = "evolution"
	InsightAbandonment      InsightType = "abandonment"
)

// PatternInsight is a derived, cacheable observation about temporal or
// thematic structure in a user's items. Recomputed, never persisted as truth.
type PatternInsight struct {
	Type           InsightType            `json:"type"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	SupportingData map[string]interface{} `json:"supporting_data,omitempty"`
	Action         string                 `json:"action,omitempty"`
}

// NewPatternInsight validates the required fields of a derived insight.
func NewPatternInsight(t InsightType, title, description string) (*PatternInsight, error) {
	if t == "" {
		return nil, errors.NewValidationError("insight type is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("insight title is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, errors.NewValidationError("insight description is required")
	}
	return &PatternInsight{Type: t, Title: title, Description: description}, nil
}

// WithData attaches supporting data to the insight.
func (p *PatternInsight) WithData(data map[string]interface{}) *PatternInsight {
	p.SupportingData = data
	return p
}

// WithAction attaches an optional suggested action.
func (p *PatternInsight) WithAction(action string) *PatternInsight {
	p.Action = action
	return p
}

// ThemeCluster groups items sharing one enrichment-assigned theme label.
// Membership is not exclusive: an item with N themes appears in N clusters.
type ThemeCluster struct {
	ThemeName      string   `json:"theme_name"`
	MemberIDs      []string `json:"member_ids"`
	SampleKeywords []string `json:"sample_keywords"`
	Size           int      `json:"size"`
}

// InsufficientData is the typed empty result the pattern detectors return
// below their sample thresholds. It is not an error; the caller renders a
// progress message from the counts.
type InsufficientData struct {
	Current int `json:"current"`
	Needed  int `json:"needed"`
}

// DueNote pairs a note with its resurfacing schedule decision.
type DueNote struct {
	Note            *Item        `json:"-"`
	NoteID          string       `json:"note_id"`
	Title           string       `json:"title"`
	DaysSinceReview int          `json:"days_since_review"`
	TargetInterval  int          `json:"target_interval"`
	Priority        float64      `json:"priority"`
	Review          *ReviewState `json:"review"`
}

// CachedAt wraps cached insight payloads with their expiry.
type CachedAt struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the cache entry has passed its wall-clock expiry.
func (c *CachedAt) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
