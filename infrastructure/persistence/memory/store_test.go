package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

func newNote(t *testing.T, id, userID string, createdAt time.Time, embedding []float32) *entities.Item {
	t.Helper()
	item, err := entities.ReconstructItem(
		id, entities.KindNote, userID, "note "+id,
		"", nil, nil, "", createdAt, embedding, 0,
	)
	require.NoError(t, err)
	return item
}

func TestMarkReviewedAnchorsFirstReviewAtCreation(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	items := NewItemStore()
	items.Seed("user-1", newNote(t, "n1", "user-1", created, nil))

	reviews := NewReviewStore(items)
	now := created.AddDate(0, 0, 5)

	state, err := reviews.MarkReviewed(ctx, "user-1", "n1", now)
	require.NoError(t, err)
	assert.Equal(t, 1, state.ReviewCount)
	assert.Equal(t, now, state.LastReviewedAt)

	states, err := reviews.States(ctx, "user-1")
	require.NoError(t, err)
	require.Contains(t, states, "n1")

	// States hands out copies; mutating one must not leak back.
	states["n1"].ReviewCount = 99
	again, err := reviews.States(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again["n1"].ReviewCount)
}

func TestMarkReviewedUnknownNote(t *testing.T) {
	reviews := NewReviewStore(NewItemStore())
	_, err := reviews.MarkReviewed(context.Background(), "user-1", "ghost", time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMissingEmbeddingsHonorsLimit(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	items := NewItemStore()
	items.Seed("user-1",
		newNote(t, "a", "user-1", created, nil),
		newNote(t, "b", "user-1", created, nil),
		newNote(t, "c", "user-1", created, []float32{0.5}),
	)

	pending, err := items.MissingEmbeddings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, items.SaveEmbedding(ctx, "a", []float32{0.1}))
	require.NoError(t, items.SaveEmbedding(ctx, "b", []float32{0.2}))

	pending, err = items.MissingEmbeddings(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = items.SaveEmbedding(ctx, "ghost", []float32{0.3})
	assert.True(t, errors.IsNotFound(err))
}

func TestInsightCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewInsightCache()

	miss, err := cache.Get(ctx, "user-1", "themes")
	require.NoError(t, err)
	assert.Nil(t, miss)

	expires := time.Now().Add(time.Hour)
	require.NoError(t, cache.Put(ctx, "user-1", "themes", []byte(`{"a":1}`), expires))

	hit, err := cache.Get(ctx, "user-1", "themes")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, []byte(`{"a":1}`), hit.Data)
	assert.False(t, hit.Expired(time.Now()))
	assert.True(t, hit.Expired(expires.Add(time.Minute)))

	require.NoError(t, cache.InvalidateUser(ctx, "user-1"))
	gone, err := cache.Get(ctx, "user-1", "themes")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
