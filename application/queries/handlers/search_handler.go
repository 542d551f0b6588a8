package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
)

const snippetLength = 160

// searchKinds fixes the merge order, which is also the tie-break order for
// equal scores (stable sort preserves it).
var searchKinds = []entities.Kind{entities.KindNote, entities.KindProject, entities.KindArticle}

// RankingTunables supplies the scoring weights, hot-reloadable by the
// config watcher.
type RankingTunables interface {
	LexicalWeights() services.LexicalWeights
	VectorWeight() float64
}

// staticTunables is the fallback when no tunable source is wired.
type staticTunables struct{}

func (staticTunables) LexicalWeights() services.LexicalWeights { return services.DefaultLexicalWeights() }
func (staticTunables) VectorWeight() float64                   { return 100 }

// SearchHandler merges lexical and vector scores across the three item
// kinds into one ranked result list.
type SearchHandler struct {
	items    ports.ItemSource
	embedder ports.EmbeddingSource
	tunables RankingTunables
	analyzer services.TextAnalyzer
	logger   *zap.Logger
}

// NewSearchHandler creates the unified search ranker.
func NewSearchHandler(
	items ports.ItemSource,
	embedder ports.EmbeddingSource,
	tunables RankingTunables,
	logger *zap.Logger,
) *SearchHandler {
	if tunables == nil {
		tunables = staticTunables{}
	}
	return &SearchHandler{
		items:    items,
		embedder: embedder,
		tunables: tunables,
		analyzer: services.NewDefaultTextAnalyzer(),
		logger:   logger,
	}
}

// Handle executes the query. Per-kind fetch failures degrade that kind to
// zero results; a missing query embedding silently drops the vector term.
// The only hard failure is an invalid query.
func (h *SearchHandler) Handle(ctx context.Context, query *queries.UnifiedSearchQuery) (*queries.UnifiedSearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	normalized, err := services.NormalizeQuery(query.Query)
	if err != nil {
		return nil, err
	}

	scorer := services.NewLexicalScorer(h.tunables.LexicalWeights(), h.analyzer)
	queryVec := h.queryEmbedding(ctx, normalized, query.Context)

	type fetchResult struct {
		kind  entities.Kind
		items []*entities.Item
		err   error
	}

	results := make([]fetchResult, len(searchKinds))
	var wg sync.WaitGroup
	for i, kind := range searchKinds {
		wg.Add(1)
		go func(i int, kind entities.Kind) {
			defer wg.Done()
			items, err := h.items.ItemsByKind(ctx, query.UserID, kind)
			results[i] = fetchResult{kind: kind, items: items, err: err}
		}(i, kind)
	}
	wg.Wait()

	merged := make([]queries.SearchResult, 0)
	breakdown := make(map[string]int, len(searchKinds))
	degraded := make([]string, 0)

	for _, fetched := range results {
		kind := string(fetched.kind)
		breakdown[kind] = 0
		if fetched.err != nil {
			h.logger.Warn("search branch degraded to empty",
				zap.String("kind", kind),
				zap.Error(fetched.err),
			)
			degraded = append(degraded, kind)
			continue
		}
		for _, item := range fetched.items {
			score := h.scoreItem(scorer, normalized, queryVec, item)
			if score <= 0 {
				continue
			}
			merged = append(merged, queries.SearchResult{
				Kind:      kind,
				ID:        item.ID(),
				Title:     item.Title(),
				Snippet:   item.Snippet(snippetLength),
				Score:     score,
				CreatedAt: item.CreatedAt(),
			})
			breakdown[kind]++
		}
	}

	// Stable: ties keep per-kind insertion order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	result := &queries.UnifiedSearchResult{
		Results:   merged,
		Breakdown: breakdown,
		Total:     len(merged),
	}
	if len(degraded) > 0 {
		result.Degraded = degraded
	}
	return result, nil
}

// scoreItem adds the lexical score and, when both vectors exist, the scaled
// cosine similarity. A dimension mismatch is treated as no vector score.
func (h *SearchHandler) scoreItem(scorer *services.LexicalScorer, query string, queryVec []float32, item *entities.Item) float64 {
	title, body := item.SearchableText()
	score := float64(scorer.Score(query, title, body))

	if len(queryVec) > 0 && item.HasEmbedding() {
		sim, err := services.CosineSimilarity(queryVec, item.Embedding())
		if err == nil {
			score += sim * h.tunables.VectorWeight()
		} else {
			h.logger.Debug("vector score skipped",
				zap.String("item_id", item.ID()),
				zap.Error(err),
			)
		}
	}
	return score
}

// queryEmbedding derives the query vector from the query plus optional
// context. Any failure means pure-lexical ranking.
func (h *SearchHandler) queryEmbedding(ctx context.Context, query, extra string) []float32 {
	if h.embedder == nil {
		return nil
	}
	text := query
	if strings.TrimSpace(extra) != "" {
		text = query + "\n" + strings.TrimSpace(extra)
	}
	vec, err := h.embedder.Embed(ctx, text)
	if err != nil {
		h.logger.Debug("query embedding unavailable", zap.Error(err))
		return nil
	}
	return vec
}
