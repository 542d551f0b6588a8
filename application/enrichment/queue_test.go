package enrichment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"polymath-backend/domain/core/entities"
)

var errEmbedDown = errors.New("embeddings down")

type fakeSource struct {
	pending []*entities.Item
	err     error
}

func (f *fakeSource) ItemsByKind(ctx context.Context, userID string, kind entities.Kind) ([]*entities.Item, error) {
	return nil, nil
}

func (f *fakeSource) Users(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeSource) MissingEmbeddings(ctx context.Context, limit int) ([]*entities.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

// flakyEmbedder fails the first failures calls per text, then succeeds.
type flakyEmbedder struct {
	mu       sync.Mutex
	failures map[string]int
	calls    int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures[text] > 0 {
		f.failures[text]--
		return nil, errEmbedDown
	}
	return []float32{0.1, 0.2}, nil
}

type recordingSink struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (r *recordingSink) SaveEmbedding(ctx context.Context, itemID string, vector []float32) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, itemID)
	return nil
}

func pendingItems(t *testing.T, ids ...string) []*entities.Item {
	t.Helper()
	created := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	items := make([]*entities.Item, 0, len(ids))
	for _, id := range ids {
		item, err := entities.ReconstructItem(
			id, entities.KindNote, "user-1", "title "+id,
			"body", nil, nil, "", created, nil, 0,
		)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func TestRunOnceEmbedsAllPending(t *testing.T) {
	source := &fakeSource{pending: pendingItems(t, "a", "b", "c")}
	embedder := &flakyEmbedder{}
	sink := &recordingSink{}
	q := NewQueue(source, embedder, sink, zap.NewNop(), WithWorkers(2))

	processed, failed := q.RunOnce(context.Background())
	assert.Equal(t, 3, processed)
	assert.Zero(t, failed)
	assert.Len(t, sink.saved, 3)
}

func TestRunOnceRetriesTransientFailures(t *testing.T) {
	items := pendingItems(t, "a")
	source := &fakeSource{pending: items}
	embedder := &flakyEmbedder{failures: map[string]int{
		items[0].Title() + "\n" + items[0].Body(): 2,
	}}
	sink := &recordingSink{}
	q := NewQueue(source, embedder, sink, zap.NewNop(), WithWorkers(1))

	processed, failed := q.RunOnce(context.Background())
	assert.Equal(t, 1, processed)
	assert.Zero(t, failed)
	assert.Equal(t, 3, embedder.calls)
}

func TestRunOnceCountsExhaustedRetriesAsFailed(t *testing.T) {
	items := pendingItems(t, "a", "b")
	source := &fakeSource{pending: items}
	embedder := &flakyEmbedder{failures: map[string]int{
		items[0].Title() + "\n" + items[0].Body(): 3,
	}}
	sink := &recordingSink{}
	q := NewQueue(source, embedder, sink, zap.NewNop(), WithWorkers(1))

	processed, failed := q.RunOnce(context.Background())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"b"}, sink.saved)
}

func TestRunOnceSinkFailureCountsAsFailed(t *testing.T) {
	source := &fakeSource{pending: pendingItems(t, "a")}
	sink := &recordingSink{err: errors.New("db down")}
	q := NewQueue(source, &flakyEmbedder{}, sink, zap.NewNop(), WithWorkers(1))

	processed, failed := q.RunOnce(context.Background())
	assert.Zero(t, processed)
	assert.Equal(t, 1, failed)
}

func TestRunOnceNothingPending(t *testing.T) {
	q := NewQueue(&fakeSource{}, &flakyEmbedder{}, &recordingSink{}, zap.NewNop())

	processed, failed := q.RunOnce(context.Background())
	assert.Zero(t, processed)
	assert.Zero(t, failed)
}

func TestRunOnceFetchFailureIsSilent(t *testing.T) {
	q := NewQueue(&fakeSource{err: errEmbedDown}, &flakyEmbedder{}, &recordingSink{}, zap.NewNop())

	processed, failed := q.RunOnce(context.Background())
	assert.Zero(t, processed)
	assert.Zero(t, failed)
}

func TestRunOnceRespectsBatchSize(t *testing.T) {
	source := &fakeSource{pending: pendingItems(t, "a", "b", "c", "d")}
	sink := &recordingSink{}
	q := NewQueue(source, &flakyEmbedder{}, sink, zap.NewNop(), WithBatchSize(2), WithWorkers(1))

	processed, _ := q.RunOnce(context.Background())
	assert.Equal(t, 2, processed)
}
