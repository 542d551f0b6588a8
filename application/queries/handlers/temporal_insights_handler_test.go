package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
)

// eveningNotes returns n notes captured on consecutive Tuesday evenings, a
// set dense enough to clear the detector threshold.
func eveningNotes(t *testing.T, n int) []*entities.Item {
	t.Helper()
	base := time.Date(2025, time.March, 4, 21, 0, 0, 0, time.UTC) // Tuesday 21:00
	notes := make([]*entities.Item, 0, n)
	for i := 0; i < n; i++ {
		notes = append(notes, buildItem(t, "n"+string(rune('a'+i)), entities.KindNote, "evening note", itemOpts{
			createdAt: base.AddDate(0, 0, 7*i),
		}))
	}
	return notes
}

func TestTemporalInsufficientDataIsTypedAndUncached(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: eveningNotes(t, 3),
	}}
	cache := newFakeCache()
	h := NewTemporalInsightsHandler(items, cache, 0, testLogger())

	result, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)

	require.NotNil(t, result.InsufficientData)
	assert.Equal(t, 3, result.InsufficientData.Current)
	assert.Equal(t, 5, result.InsufficientData.Needed)
	assert.Empty(t, result.Insights)
	assert.False(t, result.Cached)
	assert.Zero(t, cache.puts, "below-threshold results must not be cached")
}

func TestTemporalCacheHitShortCircuitsRecomputation(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: eveningNotes(t, 6),
	}}
	cache := newFakeCache()
	h := NewTemporalInsightsHandler(items, cache, 0, testLogger())

	first, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Insights)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.puts)

	// Break the item source; the cached entry must serve the second call.
	items.failKinds = map[entities.Kind]bool{entities.KindNote: true}

	second, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Len(t, second.Insights, len(first.Insights))
	assert.Equal(t, 1, cache.puts)
}

func TestTemporalRefreshBypassesCache(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: eveningNotes(t, 6),
	}}
	cache := newFakeCache()
	h := NewTemporalInsightsHandler(items, cache, 0, testLogger())

	_, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)

	// With refresh the handler must recompute; the degraded item source
	// shows up as the insufficient-data shape instead of the cached entry.
	items.failKinds = map[entities.Kind]bool{entities.KindNote: true}

	result, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1", Refresh: true})
	require.NoError(t, err)
	assert.False(t, result.Cached)
	require.NotNil(t, result.InsufficientData)
	assert.Equal(t, 0, result.InsufficientData.Current)
}

func TestTemporalExpiredEntryReadsAsMiss(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: eveningNotes(t, 6),
	}}
	cache := newFakeCache()
	h := NewTemporalInsightsHandler(items, cache, time.Hour, testLogger())

	clock := testT0
	h.now = func() time.Time { return clock }

	_, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	clock = testT0.Add(2 * time.Hour)

	result, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, cache.puts, "expired entry must trigger recompute and rewrite")
}

func TestTemporalCacheErrorDegradesToRecompute(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: eveningNotes(t, 6),
	}}
	cache := newFakeCache()
	cache.getErr = errUpstreamDown
	h := NewTemporalInsightsHandler(items, cache, 0, testLogger())

	result, err := h.Handle(context.Background(), &queries.TemporalInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.False(t, result.Cached)
	require.NotEmpty(t, result.Insights)
}
