// The insight worker runs the background side of the retrieval engine on an
// interval: it fills in missing embeddings and warms the per-user insight
// caches so the first request of the day is a cache hit.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"polymath-backend/application/queries"
	"polymath-backend/infrastructure/config"
	"polymath-backend/infrastructure/di"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutting down worker...")
		cancel()
	}()

	logger.Info("Starting insight worker",
		zap.Duration("interval", cfg.Worker.Interval),
		zap.String("environment", cfg.Environment),
	)

	ticker := time.NewTicker(cfg.Worker.Interval)
	defer ticker.Stop()

	// Run immediately, then on the interval.
	runOnce(ctx, container)
	for {
		select {
		case <-ctx.Done():
			if err := logger.Sync(); err != nil {
				log.Printf("Failed to sync logger: %v", err)
			}
			log.Println("Worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, container)
		}
	}
}

// runOnce performs one enrichment pass and one cache warm-up pass.
func runOnce(ctx context.Context, container *di.Container) {
	logger := container.Logger

	processed, failed := container.EnrichQueue.RunOnce(ctx)
	if processed > 0 {
		container.Metrics.ItemsEnriched.Add(float64(processed))
	}
	if failed > 0 {
		container.Metrics.EnrichFailures.Add(float64(failed))
	}

	users, err := container.Items.Users(ctx)
	if err != nil {
		logger.Warn("warm-up skipped, user listing failed", zap.Error(err))
		return
	}

	for _, userID := range users {
		if ctx.Err() != nil {
			return
		}
		warmUser(ctx, container, userID)
	}
	logger.Info("warm-up pass complete", zap.Int("users", len(users)))
}

// warmUser computes both cached insight families for a user. Fresh cache
// entries short-circuit inside the handlers, so repeated passes are cheap.
func warmUser(ctx context.Context, container *di.Container, userID string) {
	logger := container.Logger

	if _, err := container.Temporal.Handle(ctx, &queries.TemporalInsightsQuery{UserID: userID}); err != nil {
		logger.Warn("temporal warm-up failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	if _, err := container.Evolution.Handle(ctx, &queries.EvolutionInsightsQuery{UserID: userID}); err != nil {
		logger.Warn("evolution warm-up failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
