// Package di assembles the object graph. Providers are plain constructors;
// wire generates the initializer in wire_gen.go.
package di

import (
	"net/http"

	"go.uber.org/zap"

	cmdhandlers "polymath-backend/application/commands/handlers"
	"polymath-backend/application/enrichment"
	"polymath-backend/application/ports"
	queryhandlers "polymath-backend/application/queries/handlers"
	"polymath-backend/infrastructure/config"
	"polymath-backend/infrastructure/embeddings"
	"polymath-backend/infrastructure/narrative"
	"polymath-backend/infrastructure/persistence/memory"
	supastore "polymath-backend/infrastructure/persistence/supabase"
	"polymath-backend/interfaces/http/rest"
	resthandlers "polymath-backend/interfaces/http/rest/handlers"
	"polymath-backend/pkg/auth"
	"polymath-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Collector
	Tunables        *config.Tunables
	TunablesWatcher *config.TunablesWatcher

	Items    ports.ItemSource
	Reviews  ports.ReviewStore
	Cache    ports.InsightCache
	Embedder ports.EmbeddingSource

	// Warm-up worker entry points.
	Temporal  *queryhandlers.TemporalInsightsHandler
	Evolution *queryhandlers.EvolutionInsightsHandler

	EnrichQueue *enrichment.Queue
	Handler     http.Handler
}

// Storage bundles the persistence ports so the memory/Supabase switch
// happens in one place.
type Storage struct {
	Items   ports.ItemSource
	Sink    ports.EmbeddingSink
	Reviews ports.ReviewStore
	Cache   ports.InsightCache
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMetrics creates the Prometheus collector.
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("polymath")
}

// ProvideTunables creates the live ranking weights at their defaults.
func ProvideTunables() *config.Tunables {
	return config.NewTunables()
}

// ProvideTunablesWatcher wires the hot-reload watcher when a tunables file
// is configured, nil otherwise.
func ProvideTunablesWatcher(cfg *config.Config, tunables *config.Tunables, logger *zap.Logger) (*config.TunablesWatcher, error) {
	if cfg.TunablesFile == "" {
		return nil, nil
	}
	return config.NewTunablesWatcher(cfg.TunablesFile, tunables, logger)
}

// ProvideStorage selects the persistence backend: Supabase with
// credentials, in-memory without.
func ProvideStorage(cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if cfg.UseMemoryStores() {
		logger.Warn("no supabase credentials, using in-memory stores")
		items := memory.NewItemStore()
		return &Storage{
			Items:   items,
			Sink:    items,
			Reviews: memory.NewReviewStore(items),
			Cache:   memory.NewInsightCache(),
		}, nil
	}

	client, err := supastore.NewClient(cfg.Supabase)
	if err != nil {
		return nil, err
	}
	items := supastore.NewItemStore(client, cfg.Supabase.ItemsTable, logger)
	return &Storage{
		Items:   items,
		Sink:    items,
		Reviews: supastore.NewReviewStore(client, cfg.Supabase.ReviewsTable, cfg.Supabase.ItemsTable, logger),
		Cache:   supastore.NewInsightCache(client, cfg.Supabase.CacheTable, logger),
	}, nil
}

// ProvideItemSource exposes the storage's item source.
func ProvideItemSource(s *Storage) ports.ItemSource { return s.Items }

// ProvideEmbeddingSink exposes the storage's embedding sink.
func ProvideEmbeddingSink(s *Storage) ports.EmbeddingSink { return s.Sink }

// ProvideReviewStore exposes the storage's review store.
func ProvideReviewStore(s *Storage) ports.ReviewStore { return s.Reviews }

// ProvideInsightCache exposes the storage's insight cache.
func ProvideInsightCache(s *Storage) ports.InsightCache { return s.Cache }

// ProvideEmbedder creates the embedding client.
func ProvideEmbedder(cfg *config.Config, logger *zap.Logger) ports.EmbeddingSource {
	return embeddings.NewClient(cfg.Embeddings, logger)
}

// ProvideNarrative creates the narrative generator client.
func ProvideNarrative(cfg *config.Config, logger *zap.Logger) ports.NarrativeGenerator {
	return narrative.NewClient(cfg.Narrative, logger)
}

// ProvideJWTValidator creates the token validator, or nil without a secret
// (development header auth).
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("no JWT secret configured, using development header auth")
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.JWTIssuer,
	})
}

// ProvideSearchHandler creates the unified search query handler.
func ProvideSearchHandler(items ports.ItemSource, embedder ports.EmbeddingSource, tunables *config.Tunables, logger *zap.Logger) *queryhandlers.SearchHandler {
	return queryhandlers.NewSearchHandler(items, embedder, tunables, logger)
}

// ProvideDueReviewsHandler creates the resurfacing query handler.
func ProvideDueReviewsHandler(items ports.ItemSource, reviews ports.ReviewStore, logger *zap.Logger) *queryhandlers.DueReviewsHandler {
	return queryhandlers.NewDueReviewsHandler(items, reviews, logger)
}

// ProvideThemeInsightsHandler creates the theme clustering handler.
func ProvideThemeInsightsHandler(items ports.ItemSource, logger *zap.Logger) *queryhandlers.ThemeInsightsHandler {
	return queryhandlers.NewThemeInsightsHandler(items, nil, logger)
}

// ProvideTemporalInsightsHandler creates the temporal pattern handler.
func ProvideTemporalInsightsHandler(cfg *config.Config, items ports.ItemSource, cache ports.InsightCache, logger *zap.Logger) *queryhandlers.TemporalInsightsHandler {
	return queryhandlers.NewTemporalInsightsHandler(items, cache, cfg.Insights.CacheTTL, logger)
}

// ProvideEvolutionInsightsHandler creates the evolution pattern handler.
func ProvideEvolutionInsightsHandler(cfg *config.Config, items ports.ItemSource, cache ports.InsightCache, gen ports.NarrativeGenerator, logger *zap.Logger) *queryhandlers.EvolutionInsightsHandler {
	return queryhandlers.NewEvolutionInsightsHandler(items, cache, gen, cfg.Insights.CacheTTL, logger)
}

// ProvideMarkReviewedHandler creates the review mutation handler.
func ProvideMarkReviewedHandler(reviews ports.ReviewStore, logger *zap.Logger) *cmdhandlers.MarkReviewedHandler {
	return cmdhandlers.NewMarkReviewedHandler(reviews, logger)
}

// ProvideInvalidateInsightsHandler creates the cache invalidation handler.
func ProvideInvalidateInsightsHandler(cache ports.InsightCache, logger *zap.Logger) *cmdhandlers.InvalidateInsightsHandler {
	return cmdhandlers.NewInvalidateInsightsHandler(cache, logger)
}

// ProvideEnrichQueue creates the embedding enrichment queue.
func ProvideEnrichQueue(cfg *config.Config, items ports.ItemSource, embedder ports.EmbeddingSource, sink ports.EmbeddingSink, logger *zap.Logger) *enrichment.Queue {
	return enrichment.NewQueue(items, embedder, sink, logger,
		enrichment.WithWorkers(cfg.Worker.EnrichWorkers),
		enrichment.WithBatchSize(cfg.Worker.EnrichBatchSize),
	)
}

// ProvideRESTSearchHandler creates the search transport handler.
func ProvideRESTSearchHandler(search *queryhandlers.SearchHandler, metrics *observability.Collector, logger *zap.Logger) *resthandlers.SearchHandler {
	return resthandlers.NewSearchHandler(search, metrics, logger)
}

// ProvideRESTReviewHandler creates the review transport handler.
func ProvideRESTReviewHandler(due *queryhandlers.DueReviewsHandler, mark *cmdhandlers.MarkReviewedHandler, metrics *observability.Collector, logger *zap.Logger) *resthandlers.ReviewHandler {
	return resthandlers.NewReviewHandler(due, mark, metrics, logger)
}

// ProvideRESTInsightHandler creates the insight transport handler.
func ProvideRESTInsightHandler(
	themes *queryhandlers.ThemeInsightsHandler,
	temporal *queryhandlers.TemporalInsightsHandler,
	evolution *queryhandlers.EvolutionInsightsHandler,
	invalidate *cmdhandlers.InvalidateInsightsHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *resthandlers.InsightHandler {
	return resthandlers.NewInsightHandler(themes, temporal, evolution, invalidate, metrics, logger)
}

// ProvideHandler builds the routed HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	search *resthandlers.SearchHandler,
	reviews *resthandlers.ReviewHandler,
	insights *resthandlers.InsightHandler,
	validator *auth.JWTValidator,
	metrics *observability.Collector,
	logger *zap.Logger,
) http.Handler {
	router := rest.NewRouter(search, reviews, insights, validator, metrics, cfg.EnableCORS, logger)
	return router.Setup()
}
