package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/domain/core/entities"
)

func TestEvolutionDetector_InsufficientData(t *testing.T) {
	detector := NewEvolutionDetector()

	report, insufficient := detector.Detect(fillerNotes(t, 4, testT0), nil)

	assert.Nil(t, report)
	require.NotNil(t, insufficient)
	assert.Equal(t, 4, insufficient.Current)
	assert.Equal(t, 5, insufficient.Needed)
}

func TestEvolutionDetector_CollisionPairsFirstPositiveAndNegative(t *testing.T) {
	detector := NewEvolutionDetector()

	notes := buildNotes(t,
		itemSpec{id: "p1", themes: []string{"rust"}, tone: "excited", createdAt: testT0},
		itemSpec{id: "n1", themes: []string{"rust"}, tone: "frustrated", createdAt: testT0.AddDate(0, 0, 10)},
		// Later occurrences in the same theme are ignored.
		itemSpec{id: "p2", themes: []string{"rust"}, tone: "happy", createdAt: testT0.AddDate(0, 0, 20)},
		itemSpec{id: "n2", themes: []string{"rust"}, tone: "concerned", createdAt: testT0.AddDate(0, 0, 30)},
		itemSpec{id: "x1", createdAt: testT0.AddDate(0, 0, 40)},
	)

	report, insufficient := detector.Detect(notes, nil)

	require.Nil(t, insufficient)
	var collisions []*entities.PatternInsight
	for _, insight := range report.Insights {
		if insight.Type == entities.InsightCollision {
			collisions = append(collisions, insight)
		}
	}
	require.Len(t, collisions, 1)
	assert.Equal(t, "p1", collisions[0].SupportingData["positive_id"])
	assert.Equal(t, "n1", collisions[0].SupportingData["negative_id"])
}

func TestEvolutionDetector_TwoMemberThemeEmitsExactlyOneCollision(t *testing.T) {
	detector := NewEvolutionDetector()

	notes := buildNotes(t,
		itemSpec{id: "a", themes: []string{"gardening"}, tone: "excited", createdAt: testT0},
		itemSpec{id: "b", themes: []string{"gardening"}, tone: "frustrated", createdAt: testT0.AddDate(0, 0, 5)},
	)
	notes = append(notes, fillerNotes(t, 3, testT0.AddDate(0, 0, 10))...)

	report, insufficient := detector.Detect(notes, nil)

	require.Nil(t, insufficient)
	require.Len(t, report.Insights, 1)
	insight := report.Insights[0]
	assert.Equal(t, entities.InsightCollision, insight.Type)
	assert.ElementsMatch(t, []string{"a", "b"}, insight.SupportingData["note_ids"])
}

func TestEvolutionDetector_EndToEndRustScenario(t *testing.T) {
	detector := NewEvolutionDetector()

	notes := buildNotes(t,
		itemSpec{id: "1", title: "Learning Rust", themes: []string{"rust"}, tone: "excited", createdAt: testT0},
		itemSpec{id: "2", title: "Rust is hard", themes: []string{"rust"}, tone: "frustrated", createdAt: testT0.AddDate(0, 0, 30)},
	)
	notes = append(notes, fillerNotes(t, 5, testT0.AddDate(0, 0, 35))...)

	report, insufficient := detector.Detect(notes, nil)

	require.Nil(t, insufficient)
	collision := findInsight(report.Insights, entities.InsightCollision)
	require.NotNil(t, collision)
	assert.Equal(t, "rust", collision.SupportingData["theme"])
	assert.ElementsMatch(t, []string{"1", "2"}, collision.SupportingData["note_ids"])
}

func TestEvolutionDetector_MaturityNeedsThreeMembers(t *testing.T) {
	detector := NewEvolutionDetector()

	notes := buildNotes(t,
		itemSpec{id: "a", title: "Learning Go", body: "trying to understand goroutines", themes: []string{"go"}, createdAt: testT0},
		itemSpec{id: "b", title: "more Go practice", body: "still learning channels", themes: []string{"go"}, createdAt: testT0.AddDate(0, 0, 10)},
		itemSpec{id: "c", title: "Shipped my Go service", body: "built and shipped the API", themes: []string{"go"}, createdAt: testT0.AddDate(0, 0, 20)},
		itemSpec{id: "d", createdAt: testT0.AddDate(0, 0, 21)},
		itemSpec{id: "e", createdAt: testT0.AddDate(0, 0, 22)},
	)

	report, insufficient := detector.Detect(notes, nil)

	require.Nil(t, insufficient)
	evolution := findInsight(report.Insights, entities.InsightEvolution)
	require.NotNil(t, evolution)
	assert.Equal(t, "go", evolution.SupportingData["theme"])
	assert.Equal(t, 3, evolution.SupportingData["member_count"])
}

func TestEvolutionDetector_NoMaturityWithoutCompletionLanguage(t *testing.T) {
	detector := NewEvolutionDetector()

	notes := buildNotes(t,
		itemSpec{id: "a", body: "learning about soil", themes: []string{"garden"}, createdAt: testT0},
		itemSpec{id: "b", body: "trying to grow tomatoes", themes: []string{"garden"}, createdAt: testT0.AddDate(0, 0, 5)},
		itemSpec{id: "c", body: "tomatoes are growing slowly", themes: []string{"garden"}, createdAt: testT0.AddDate(0, 0, 10)},
		itemSpec{id: "d", createdAt: testT0.AddDate(0, 0, 11)},
		itemSpec{id: "e", createdAt: testT0.AddDate(0, 0, 12)},
	)

	report, insufficient := detector.Detect(notes, nil)

	require.Nil(t, insufficient)
	assert.Nil(t, findInsight(report.Insights, entities.InsightEvolution))
}

func TestEvolutionDetector_TopThreeThemesOnly(t *testing.T) {
	detector := NewEvolutionDetector()

	mkTheme := func(theme string, n int, start time.Time) []itemSpec {
		specs := make([]itemSpec, 0, n)
		for i := 0; i < n; i++ {
			tone := "excited"
			if i%2 == 1 {
				tone = "frustrated"
			}
			specs = append(specs, itemSpec{
				id:        theme + "-" + string(rune('0'+i)),
				themes:    []string{theme},
				tone:      tone,
				createdAt: start.AddDate(0, 0, i),
			})
		}
		return specs
	}

	specs := mkTheme("alpha", 5, testT0)
	specs = append(specs, mkTheme("beta", 4, testT0)...)
	specs = append(specs, mkTheme("gamma", 3, testT0)...)
	specs = append(specs, mkTheme("delta", 2, testT0)...)

	report, insufficient := detector.Detect(buildNotes(t, specs...), nil)

	require.Nil(t, insufficient)
	themes := make(map[string]bool)
	for _, insight := range report.Insights {
		if insight.Type == entities.InsightCollision {
			themes[insight.SupportingData["theme"].(string)] = true
		}
	}
	assert.True(t, themes["alpha"])
	assert.True(t, themes["beta"])
	assert.True(t, themes["gamma"])
	assert.False(t, themes["delta"])
}

func TestEvolutionDetector_AbandonmentEvidence(t *testing.T) {
	detector := NewEvolutionDetector()

	projects := buildNotes(t,
		itemSpec{id: "pr1", kind: entities.KindProject, title: "Drone mapper", reason: "ran out of weekends"},
		itemSpec{id: "pr2", kind: entities.KindProject, title: "Drone Mapper", reason: "duplicate title is deduplicated"},
		itemSpec{id: "pr3", kind: entities.KindProject, title: "Recipe app", status: "abandoned"},
		itemSpec{id: "pr4", kind: entities.KindProject, title: "Active thing", status: "active"},
	)

	report, insufficient := detector.Detect(fillerNotes(t, 5, testT0), projects)

	require.Nil(t, insufficient)
	require.Len(t, report.AbandonmentEvidence, 2)
	assert.Equal(t, "Drone mapper", report.AbandonmentEvidence[0].Title)
	assert.Equal(t, "ran out of weekends", report.AbandonmentEvidence[0].Reason)
	assert.Equal(t, "Recipe app", report.AbandonmentEvidence[1].Title)
}

func TestEvolutionDetector_SingleAbandonedProjectIsNotAPattern(t *testing.T) {
	detector := NewEvolutionDetector()

	projects := buildNotes(t,
		itemSpec{id: "pr1", kind: entities.KindProject, title: "Drone mapper", reason: "no time"},
	)

	report, insufficient := detector.Detect(fillerNotes(t, 5, testT0), projects)

	require.Nil(t, insufficient)
	assert.Nil(t, report.AbandonmentEvidence)
}
