//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"polymath-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideTunables,
	ProvideTunablesWatcher,
	ProvideStorage,
	ProvideItemSource,
	ProvideEmbeddingSink,
	ProvideReviewStore,
	ProvideInsightCache,
	ProvideEmbedder,
	ProvideNarrative,
	ProvideJWTValidator,
	ProvideSearchHandler,
	ProvideDueReviewsHandler,
	ProvideThemeInsightsHandler,
	ProvideTemporalInsightsHandler,
	ProvideEvolutionInsightsHandler,
	ProvideMarkReviewedHandler,
	ProvideInvalidateInsightsHandler,
	ProvideEnrichQueue,
	ProvideRESTSearchHandler,
	ProvideRESTReviewHandler,
	ProvideRESTInsightHandler,
	ProvideHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
