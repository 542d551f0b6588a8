package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/application/queries"
	"polymath-backend/domain/core/entities"
)

func TestThemeInsightsClustersByTheme(t *testing.T) {
	items := &fakeItems{byKind: map[entities.Kind][]*entities.Item{
		entities.KindNote: {
			buildItem(t, "n1", entities.KindNote, "go generics deep dive", itemOpts{themes: []string{"go"}}),
			buildItem(t, "n2", entities.KindNote, "go scheduler internals", itemOpts{themes: []string{"go"}}),
			buildItem(t, "n3", entities.KindNote, "untagged scribble", itemOpts{}),
		},
	}}
	h := NewThemeInsightsHandler(items, nil, testLogger())

	result, err := h.Handle(context.Background(), &queries.ThemeInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)

	require.Len(t, result.Clusters, 1)
	assert.Equal(t, "go", result.Clusters[0].ThemeName)
	assert.ElementsMatch(t, []string{"n1", "n2"}, result.Clusters[0].MemberIDs)
	assert.Equal(t, 3, result.TotalItems)
	assert.Equal(t, 1, result.UncategorizedCount)
}

func TestThemeInsightsDegradesToEmptyReport(t *testing.T) {
	items := &fakeItems{failKinds: map[entities.Kind]bool{entities.KindNote: true}}
	h := NewThemeInsightsHandler(items, nil, testLogger())

	result, err := h.Handle(context.Background(), &queries.ThemeInsightsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, result.Clusters)
	assert.Zero(t, result.TotalItems)
}
