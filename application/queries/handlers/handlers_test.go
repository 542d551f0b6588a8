package handlers

// Shared in-memory fakes for the query handler tests. Each fake implements
// exactly one port and fails on demand so degraded paths can be exercised.

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"polymath-backend/domain/core/entities"
)

var errUpstreamDown = errors.New("upstream down")

// testT0 is a fixed Monday morning anchor shared by the handler tests.
var testT0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

type fakeItems struct {
	byKind    map[entities.Kind][]*entities.Item
	failKinds map[entities.Kind]bool
	users     []string
	pending   []*entities.Item
}

func (f *fakeItems) ItemsByKind(ctx context.Context, userID string, kind entities.Kind) ([]*entities.Item, error) {
	if f.failKinds[kind] {
		return nil, errUpstreamDown
	}
	return f.byKind[kind], nil
}

func (f *fakeItems) Users(ctx context.Context) ([]string, error) {
	return f.users, nil
}

func (f *fakeItems) MissingEmbeddings(ctx context.Context, limit int) ([]*entities.Item, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

type fakeCache struct {
	entries map[string]cacheEntry // key: userID + "/" + insightType
	puts    int
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cacheEntry)}
}

func (f *fakeCache) Get(ctx context.Context, userID, insightType string) (*entities.CachedAt, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[userID+"/"+insightType]
	if !ok {
		return nil, nil
	}
	return &entities.CachedAt{Data: entry.data, ExpiresAt: entry.expiresAt}, nil
}

func (f *fakeCache) Put(ctx context.Context, userID, insightType string, data []byte, expiresAt time.Time) error {
	f.puts++
	f.entries[userID+"/"+insightType] = cacheEntry{data: data, expiresAt: expiresAt}
	return nil
}

func (f *fakeCache) InvalidateUser(ctx context.Context, userID string) error {
	for key := range f.entries {
		if len(key) > len(userID) && key[:len(userID)+1] == userID+"/" {
			delete(f.entries, key)
		}
	}
	return nil
}

type fakeNarrative struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeNarrative) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type itemOpts struct {
	body        string
	tags        []string
	themes      []string
	tone        string
	createdAt   time.Time
	embedding   []float32
	entityCount int
	status      string
	reason      string
}

func buildItem(t *testing.T, id string, kind entities.Kind, title string, opts itemOpts) *entities.Item {
	t.Helper()
	createdAt := opts.createdAt
	if createdAt.IsZero() {
		createdAt = testT0
	}
	item, err := entities.ReconstructItem(
		id, kind, "user-1", title,
		opts.body, opts.tags, opts.themes, opts.tone,
		createdAt, opts.embedding, opts.entityCount,
	)
	if err != nil {
		t.Fatalf("build item %s: %v", id, err)
	}
	if opts.status != "" || opts.reason != "" {
		item.SetProjectStatus(opts.status, opts.reason)
	}
	return item
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
