// Package ports defines the collaborator interfaces the retrieval core
// consumes. Every external capability is an explicit dependency passed in at
// construction, so each can be substituted with an in-memory fake in tests.
package ports

import (
	"context"
	"time"

	"polymath-backend/domain/core/entities"
)

// ItemSource is the read-only query interface over captured items. The core
// never writes items.
type ItemSource interface {
	// ItemsByKind returns all of a user's items of one kind. Items may be
	// partially enriched: themes and embedding can be absent.
	ItemsByKind(ctx context.Context, userID string, kind entities.Kind) ([]*entities.Item, error)

	// Users lists the user IDs that own at least one item. Used by the
	// insight warm-up worker.
	Users(ctx context.Context) ([]string, error)

	// MissingEmbeddings returns items whose background enrichment has not
	// produced an embedding yet, up to limit.
	MissingEmbeddings(ctx context.Context, limit int) ([]*entities.Item, error)
}

// EmbeddingSource turns text into a fixed-length vector. Failure means "no
// vector score available", never a fatal condition for callers.
type EmbeddingSource interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingSink receives the vectors the enrichment queue computes.
type EmbeddingSink interface {
	SaveEmbedding(ctx context.Context, itemID string, vector []float32) error
}

// ReviewStore reads and mutates per-note review bookkeeping. MarkReviewed is
// the read-increment-write described in the concurrency model; concurrent
// marks on the same note are last-write-wins.
type ReviewStore interface {
	States(ctx context.Context, userID string) (map[string]*entities.ReviewState, error)
	MarkReviewed(ctx context.Context, userID, noteID string, now time.Time) (*entities.ReviewState, error)
}

// NarrativeGenerator phrases human-readable summaries from structured
// evidence. The contract is: send well-formed grouped evidence; on a
// malformed or unparseable response, omit the insight. Never retried
// indefinitely.
type NarrativeGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsightCache stores computed insight payloads keyed by (user, insight
// type) with a wall-clock expiry. Get returns (nil, nil) on a miss; callers
// check expiry themselves so expired entries read as misses too.
type InsightCache interface {
	Get(ctx context.Context, userID string, insightType string) (*entities.CachedAt, error)
	Put(ctx context.Context, userID string, insightType string, data []byte, expiresAt time.Time) error

	// InvalidateUser drops every cached insight for the user, used when an
	// item deletion must cascade.
	InvalidateUser(ctx context.Context, userID string) error
}
