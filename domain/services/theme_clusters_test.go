package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeClusterer_MultiMembership(t *testing.T) {
	clusterer := NewThemeClusterer(nil)
	items := buildNotes(t,
		itemSpec{id: "a", themes: []string{"rust", "learning"}},
		itemSpec{id: "b", themes: []string{"rust"}},
		itemSpec{id: "c", themes: []string{"learning"}},
		itemSpec{id: "d"}, // uncategorized
	)

	report := clusterer.Cluster(items)

	// Sum of member counts equals (item, theme) pairs, not item count.
	total := 0
	for _, cluster := range report.Clusters {
		total += cluster.Size
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 4, report.TotalItems)
	assert.Equal(t, 1, report.UncategorizedCount)

	for _, cluster := range report.Clusters {
		assert.NotContains(t, cluster.MemberIDs, "d")
	}
}

func TestThemeClusterer_SortedBySizeDescending(t *testing.T) {
	clusterer := NewThemeClusterer(nil)
	items := buildNotes(t,
		itemSpec{id: "a", themes: []string{"big"}},
		itemSpec{id: "b", themes: []string{"big"}},
		itemSpec{id: "c", themes: []string{"big"}},
		itemSpec{id: "d", themes: []string{"small"}},
	)

	report := clusterer.Cluster(items)

	require.Len(t, report.Clusters, 2)
	assert.Equal(t, "big", report.Clusters[0].ThemeName)
	assert.Equal(t, 3, report.Clusters[0].Size)
	assert.Equal(t, "small", report.Clusters[1].ThemeName)
}

func TestThemeClusterer_TruncatesToTwelveClusters(t *testing.T) {
	clusterer := NewThemeClusterer(nil)
	specs := make([]itemSpec, 0, 15)
	for i := 0; i < 15; i++ {
		specs = append(specs, itemSpec{
			id:     "n" + string(rune('a'+i)),
			themes: []string{"theme-" + string(rune('a'+i))},
		})
	}

	report := clusterer.Cluster(buildNotes(t, specs...))

	assert.Len(t, report.Clusters, 12)
}

func TestThemeClusterer_SampleKeywords(t *testing.T) {
	clusterer := NewThemeClusterer(nil)
	items := buildNotes(t,
		itemSpec{
			id:     "a",
			title:  "async runtime internals explained",
			tags:   []string{"systems"},
			themes: []string{"rust"},
		},
		itemSpec{
			id:     "b",
			title:  "borrow checker gotchas",
			tags:   []string{"systems", "compilers"},
			themes: []string{"rust"},
		},
	)

	report := clusterer.Cluster(items)

	require.Len(t, report.Clusters, 1)
	keywords := report.Clusters[0].SampleKeywords
	assert.LessOrEqual(t, len(keywords), 5)
	// Tag keywords deduplicate across members.
	assert.Equal(t, []string{"systems", "async", "runtime", "compilers", "borrow"}, keywords)
}

func TestThemeClusterer_EmptyInput(t *testing.T) {
	clusterer := NewThemeClusterer(nil)

	report := clusterer.Cluster(nil)

	assert.Empty(t, report.Clusters)
	assert.Equal(t, 0, report.TotalItems)
	assert.Equal(t, 0, report.UncategorizedCount)
}
