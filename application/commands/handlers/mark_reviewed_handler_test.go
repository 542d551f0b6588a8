package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"polymath-backend/application/commands"
	"polymath-backend/domain/core/entities"
	"polymath-backend/infrastructure/persistence/memory"
	"polymath-backend/pkg/errors"
)

func seedNote(t *testing.T, items *memory.ItemStore, userID, noteID string, createdAt time.Time) {
	t.Helper()
	note, err := entities.ReconstructItem(
		noteID, entities.KindNote, userID, "a note",
		"", nil, nil, "", createdAt, nil, 0,
	)
	require.NoError(t, err)
	items.Seed(userID, note)
}

func TestMarkReviewedIncrementsCount(t *testing.T) {
	items := memory.NewItemStore()
	created := time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)
	seedNote(t, items, "user-1", "n1", created)

	h := NewMarkReviewedHandler(memory.NewReviewStore(items), zap.NewNop())
	now := created.AddDate(0, 0, 10)
	h.now = func() time.Time { return now }

	first, err := h.Handle(context.Background(), &commands.MarkReviewedCommand{UserID: "user-1", NoteID: "n1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ReviewCount)
	assert.Equal(t, now, first.LastReviewedAt)

	second, err := h.Handle(context.Background(), &commands.MarkReviewedCommand{UserID: "user-1", NoteID: "n1"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ReviewCount)
}

func TestMarkReviewedUnknownNoteIsNotFound(t *testing.T) {
	h := NewMarkReviewedHandler(memory.NewReviewStore(memory.NewItemStore()), zap.NewNop())

	_, err := h.Handle(context.Background(), &commands.MarkReviewedCommand{UserID: "user-1", NoteID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMarkReviewedRejectsMissingFields(t *testing.T) {
	h := NewMarkReviewedHandler(memory.NewReviewStore(memory.NewItemStore()), zap.NewNop())

	_, err := h.Handle(context.Background(), &commands.MarkReviewedCommand{UserID: "user-1"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestInvalidateInsightsDropsUserEntries(t *testing.T) {
	cache := memory.NewInsightCache()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	require.NoError(t, cache.Put(ctx, "user-1", "themes", []byte(`{}`), expires))
	require.NoError(t, cache.Put(ctx, "user-2", "themes", []byte(`{}`), expires))

	h := NewInvalidateInsightsHandler(cache, zap.NewNop())
	require.NoError(t, h.Handle(ctx, &commands.InvalidateInsightsCommand{UserID: "user-1"}))

	gone, err := cache.Get(ctx, "user-1", "themes")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := cache.Get(ctx, "user-2", "themes")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
