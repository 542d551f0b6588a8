// Package enrichment drives the background embedding pipeline. Capture
// writes items without vectors; this queue fills them in asynchronously.
// Delivery is at-least-once: an item that fails here still lacks its
// embedding and is picked up again on the next run, and every consumer of
// items already tolerates the missing vector.
package enrichment

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"polymath-backend/application/ports"
	"polymath-backend/domain/core/entities"
)

const (
	defaultWorkers     = 4
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
)

// Queue embeds items that background enrichment has not reached yet.
type Queue struct {
	items       ports.ItemSource
	embedder    ports.EmbeddingSource
	sink        ports.EmbeddingSink
	workers     int
	batchSize   int
	maxAttempts int
	logger      *zap.Logger
}

// Option tunes queue behavior.
type Option func(*Queue)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithBatchSize sets how many items one run claims.
func WithBatchSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.batchSize = n
		}
	}
}

// NewQueue creates an enrichment queue.
func NewQueue(items ports.ItemSource, embedder ports.EmbeddingSource, sink ports.EmbeddingSink, logger *zap.Logger, opts ...Option) *Queue {
	q := &Queue{
		items:       items,
		embedder:    embedder,
		sink:        sink,
		workers:     defaultWorkers,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// RunOnce claims a batch of unenriched items and embeds them with a worker
// pool. Returns how many items were enriched and how many failed; failures
// are retried on the next run.
func (q *Queue) RunOnce(ctx context.Context) (processed, failed int) {
	pending, err := q.items.MissingEmbeddings(ctx, q.batchSize)
	if err != nil {
		q.logger.Warn("enrichment batch fetch failed", zap.Error(err))
		return 0, 0
	}
	if len(pending) == 0 {
		return 0, 0
	}

	jobs := make(chan *entities.Item)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if q.enrich(ctx, item) {
					mu.Lock()
					processed++
					mu.Unlock()
				} else {
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, item := range pending {
		select {
		case jobs <- item:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return processed, failed
		}
	}
	close(jobs)
	wg.Wait()

	q.logger.Info("enrichment run complete",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
		zap.Int("pending", len(pending)),
	)
	return processed, failed
}

// enrich embeds a single item, retrying transient failures a few times
// within the run.
func (q *Queue) enrich(ctx context.Context, item *entities.Item) bool {
	text := item.Title() + "\n" + item.Body()

	var lastErr error
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return false
		}
		vector, err := q.embedder.Embed(ctx, text)
		if err != nil {
			lastErr = err
			continue
		}
		if err := q.sink.SaveEmbedding(ctx, item.ID(), vector); err != nil {
			lastErr = err
			continue
		}
		return true
	}

	q.logger.Warn("item enrichment failed, will retry next run",
		zap.String("item_id", item.ID()),
		zap.Error(lastErr),
	)
	return false
}
