package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
)

// EvolutionInsightsHandler runs the structural evolution/contradiction
// detector behind the insight cache, and asks the narrative generator to
// phrase the abandonment pattern when enough evidence exists.
type EvolutionInsightsHandler struct {
	items     ports.ItemSource
	cache     ports.InsightCache
	narrative ports.NarrativeGenerator
	detector  *services.EvolutionDetector
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewEvolutionInsightsHandler creates the handler. The narrative generator
// may be nil, in which case the abandonment insight is simply omitted.
func NewEvolutionInsightsHandler(
	items ports.ItemSource,
	cache ports.InsightCache,
	narrative ports.NarrativeGenerator,
	ttl time.Duration,
	logger *zap.Logger,
) *EvolutionInsightsHandler {
	if ttl <= 0 {
		ttl = DefaultInsightTTL
	}
	return &EvolutionInsightsHandler{
		items:     items,
		cache:     cache,
		narrative: narrative,
		detector:  services.NewEvolutionDetector(),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle returns cached insights when fresh, otherwise recomputes. The two
// item fetches run concurrently and degrade independently to empty.
func (h *EvolutionInsightsHandler) Handle(ctx context.Context, query *queries.EvolutionInsightsQuery) (*queries.InsightsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if !query.Refresh {
		if cached := readCachedInsights(ctx, h.cache, query.UserID, queries.CacheKeyEvolution, h.now(), h.logger); cached != nil {
			return cached, nil
		}
	}

	notes, projects := h.fetchBranches(ctx, query.UserID)

	report, insufficient := h.detector.Detect(notes, projects)
	if insufficient != nil {
		return &queries.InsightsResult{InsufficientData: insufficient}, nil
	}

	insights := report.Insights
	if abandonment := h.phraseAbandonment(ctx, report.AbandonmentEvidence); abandonment != nil {
		insights = append(insights, abandonment)
	}

	result := &queries.InsightsResult{Insights: insights}
	writeCachedInsights(ctx, h.cache, query.UserID, queries.CacheKeyEvolution, result, h.now().Add(h.ttl), h.logger)
	return result, nil
}

// fetchBranches loads notes and projects concurrently; each branch degrades
// to empty on failure without affecting the other.
func (h *EvolutionInsightsHandler) fetchBranches(ctx context.Context, userID string) (notes, projects []*entities.Item) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		notes, err = h.items.ItemsByKind(ctx, userID, entities.KindNote)
		if err != nil {
			h.logger.Warn("evolution notes branch degraded", zap.String("user_id", userID), zap.Error(err))
			notes = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		projects, err = h.items.ItemsByKind(ctx, userID, entities.KindProject)
		if err != nil {
			h.logger.Warn("evolution projects branch degraded", zap.String("user_id", userID), zap.Error(err))
			projects = nil
		}
	}()
	wg.Wait()
	return notes, projects
}

// abandonmentNarrative is the record shape the generator must return.
// Anything unparseable means the insight is omitted, never an error.
type abandonmentNarrative struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// phraseAbandonment sends the deduplicated evidence to the narrative
// generator and wraps its phrasing in a pattern insight. Fail-soft: any
// generator or parse failure drops the insight.
func (h *EvolutionInsightsHandler) phraseAbandonment(ctx context.Context, evidence []services.AbandonedProject) *entities.PatternInsight {
	if len(evidence) == 0 || h.narrative == nil {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("These side projects were abandoned, with the stated reasons:\n")
	for _, project := range evidence {
		fmt.Fprintf(&sb, "- %q: %s\n", project.Title, project.Reason)
	}
	sb.WriteString(`Describe the common pattern in one short paragraph. Respond with JSON: {"title": "...", "description": "..."}`)

	raw, err := h.narrative.Generate(ctx, sb.String())
	if err != nil {
		h.logger.Warn("abandonment narrative unavailable, omitting insight", zap.Error(err))
		return nil
	}

	var parsed abandonmentNarrative
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		h.logger.Warn("abandonment narrative unparseable, omitting insight", zap.Error(err))
		return nil
	}

	insight, err := entities.NewPatternInsight(entities.InsightAbandonment, parsed.Title, parsed.Description)
	if err != nil {
		h.logger.Warn("abandonment narrative incomplete, omitting insight", zap.Error(err))
		return nil
	}
	return insight.WithData(map[string]interface{}{"projects": evidence})
}

// extractJSON strips markdown code fences generators like to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			return raw[start : end+1]
		}
	}
	return raw
}
