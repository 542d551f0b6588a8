package services

import (
	"sort"
	"strings"

	"polymath-backend/domain/core/entities"
)

const (
	maxClusters         = 12
	maxSampleKeywords   = 5
	keywordSampleItems  = 10
	keywordTitleWords   = 2
	keywordTitleWordMin = 4
)

// ClusterReport is the full clustering output, including the counts that
// make cluster coverage transparent to the caller.
type ClusterReport struct {
	Clusters           []entities.ThemeCluster `json:"clusters"`
	TotalItems         int                     `json:"total_items"`
	UncategorizedCount int                     `json:"uncategorized_count"`
}

// ThemeClusterer groups items by their enrichment-assigned theme labels.
// Membership is a multi-map: an item carrying N themes lands in N clusters.
// Recomputed fully per request; nothing is maintained incrementally.
type ThemeClusterer struct {
	analyzer TextAnalyzer
}

// NewThemeClusterer creates a clusterer.
func NewThemeClusterer(analyzer TextAnalyzer) *ThemeClusterer {
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &ThemeClusterer{analyzer: analyzer}
}

// Cluster builds named theme clusters from the item set. Items with no
// themes are counted as uncategorized and excluded from every cluster.
// Clusters come back sorted by descending member count, truncated to the
// top 12.
func (tc *ThemeClusterer) Cluster(items []*entities.Item) *ClusterReport {
	members := make(map[string][]*entities.Item)
	order := make([]string, 0)
	uncategorized := 0

	for _, item := range items {
		themes := item.Themes()
		if len(themes) == 0 {
			uncategorized++
			continue
		}
		for _, theme := range themes {
			theme = strings.TrimSpace(theme)
			if theme == "" {
				continue
			}
			if _, seen := members[theme]; !seen {
				order = append(order, theme)
			}
			members[theme] = append(members[theme], item)
		}
	}

	clusters := make([]entities.ThemeCluster, 0, len(order))
	for _, theme := range order {
		group := members[theme]
		clusters = append(clusters, entities.ThemeCluster{
			ThemeName:      theme,
			MemberIDs:      memberIDs(group),
			SampleKeywords: tc.sampleKeywords(group),
			Size:           len(group),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})
	if len(clusters) > maxClusters {
		clusters = clusters[:maxClusters]
	}

	return &ClusterReport{
		Clusters:           clusters,
		TotalItems:         len(items),
		UncategorizedCount: uncategorized,
	}
}

func memberIDs(group []*entities.Item) []string {
	ids := make([]string, 0, len(group))
	for _, item := range group {
		ids = append(ids, item.ID())
	}
	return ids
}

// sampleKeywords derives up to 5 representative keywords for a cluster from
// member tags and long title words, first 10 members considered.
func (tc *ThemeClusterer) sampleKeywords(group []*entities.Item) []string {
	keywords := make([]string, 0, maxSampleKeywords)
	seen := make(map[string]bool)

	add := func(word string) bool {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			return len(keywords) < maxSampleKeywords
		}
		seen[word] = true
		keywords = append(keywords, word)
		return len(keywords) < maxSampleKeywords
	}

	sample := group
	if len(sample) > keywordSampleItems {
		sample = sample[:keywordSampleItems]
	}

	for _, item := range sample {
		for _, tag := range item.Tags() {
			if !add(tag) {
				return keywords
			}
		}
		for _, word := range tc.analyzer.SignificantTitleWords(item.Title(), keywordTitleWordMin, keywordTitleWords) {
			if !add(word) {
				return keywords
			}
		}
	}

	return keywords
}
