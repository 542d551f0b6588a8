package handlers

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
	"polymath-backend/domain/services"
)

// DefaultInsightTTL is how long computed pattern insights stay valid.
const DefaultInsightTTL = 24 * time.Hour

// TemporalInsightsHandler runs the temporal pattern detector behind the
// per-user insight cache. A cache hit short-circuits recomputation; expiry
// is wall-clock.
type TemporalInsightsHandler struct {
	items    ports.ItemSource
	cache    ports.InsightCache
	detector *services.TemporalPatternDetector
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewTemporalInsightsHandler creates the handler.
func NewTemporalInsightsHandler(
	items ports.ItemSource,
	cache ports.InsightCache,
	ttl time.Duration,
	logger *zap.Logger,
) *TemporalInsightsHandler {
	if ttl <= 0 {
		ttl = DefaultInsightTTL
	}
	return &TemporalInsightsHandler{
		items:    items,
		cache:    cache,
		detector: services.NewTemporalPatternDetector(),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle returns cached insights when fresh, otherwise recomputes from the
// user's notes. An item-source failure degrades to the insufficient-data
// shape instead of an error.
func (h *TemporalInsightsHandler) Handle(ctx context.Context, query *queries.TemporalInsightsQuery) (*queries.InsightsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if !query.Refresh {
		if cached := readCachedInsights(ctx, h.cache, query.UserID, queries.CacheKeyTemporal, h.now(), h.logger); cached != nil {
			return cached, nil
		}
	}

	notes, err := h.items.ItemsByKind(ctx, query.UserID, entities.KindNote)
	if err != nil {
		h.logger.Warn("temporal insights degraded: item source unavailable",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		notes = nil
	}

	report, insufficient := h.detector.Detect(notes)
	if insufficient != nil {
		// Not cached: the user is below threshold and new captures should
		// show progress immediately.
		return &queries.InsightsResult{InsufficientData: insufficient}, nil
	}

	result := &queries.InsightsResult{Insights: report.Insights}
	writeCachedInsights(ctx, h.cache, query.UserID, queries.CacheKeyTemporal, result, h.now().Add(h.ttl), h.logger)
	return result, nil
}

// readCachedInsights returns the cached result, or nil on miss, expiry, or
// any cache error. Cache trouble never fails a request.
func readCachedInsights(
	ctx context.Context,
	cache ports.InsightCache,
	userID, key string,
	now time.Time,
	logger *zap.Logger,
) *queries.InsightsResult {
	if cache == nil {
		return nil
	}
	entry, err := cache.Get(ctx, userID, key)
	if err != nil {
		logger.Debug("insight cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if entry == nil || entry.Expired(now) {
		return nil
	}

	var result queries.InsightsResult
	if err := json.Unmarshal(entry.Data, &result); err != nil {
		logger.Warn("insight cache entry corrupt, recomputing", zap.String("key", key), zap.Error(err))
		return nil
	}
	result.Cached = true
	return &result
}

// writeCachedInsights stores a computed result; failures are logged and
// ignored since the entry is a pure function of the same inputs.
func writeCachedInsights(
	ctx context.Context,
	cache ports.InsightCache,
	userID, key string,
	result *queries.InsightsResult,
	expiresAt time.Time,
	logger *zap.Logger,
) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		logger.Warn("insight cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := cache.Put(ctx, userID, key, data, expiresAt); err != nil {
		logger.Debug("insight cache write failed", zap.String("key", key), zap.Error(err))
	}
}
