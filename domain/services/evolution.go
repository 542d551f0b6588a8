package services

import (
	"fmt"
	"sort"
	"strings"

	"polymath-backend/domain/core/entities"
)

const (
	// MinEvolutionSamples mirrors the temporal detector's sample floor.
	MinEvolutionSamples = 5

	topThemeGroups       = 3
	minCollisionMembers  = 2
	minEvolutionMembers  = 3
	minAbandonedProjects = 2
	quoteLength          = 80
)

var (
	positiveTones     = []string{"excited", "happy"}
	negativeTones     = []string{"frustrated", "concerned"}
	learningPhrases   = []string{"learning", "trying to"}
	completionPhrases = []string{"built", "shipped", "finished"}
)

// AbandonedProject is one piece of deduplicated evidence handed to the
// narrative generator. The detector only collects it; phrasing the pattern
// is external.
type AbandonedProject struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// EvolutionReport is the structural output of the detector: collision and
// learning-evolution insights, plus the abandonment evidence whose narrative
// half is produced elsewhere.
type EvolutionReport struct {
	Insights            []*entities.PatternInsight `json:"insights"`
	AbandonmentEvidence []AbandonedProject         `json:"abandonment_evidence,omitempty"`
}

// EvolutionDetector groups notes by theme over time and flags belief-shift
// and sentiment-contradiction patterns. All detection here is local logic;
// only the abandonment narrative needs an external call.
type EvolutionDetector struct{}

// NewEvolutionDetector creates a detector.
func NewEvolutionDetector() *EvolutionDetector {
	return &EvolutionDetector{}
}

// Detect runs the structural analysis over the user's notes and the
// abandoned-project list. Below the sample minimum it returns the typed
// insufficient-data result.
func (d *EvolutionDetector) Detect(notes, projects []*entities.Item) (*EvolutionReport, *entities.InsufficientData) {
	if len(notes) < MinEvolutionSamples {
		return nil, &entities.InsufficientData{Current: len(notes), Needed: MinEvolutionSamples}
	}

	ordered := make([]*entities.Item, len(notes))
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt().Before(ordered[j].CreatedAt())
	})

	report := &EvolutionReport{}
	for _, group := range d.themeGroups(ordered) {
		if insight := d.detectCollision(group.theme, group.members); insight != nil {
			report.Insights = append(report.Insights, insight)
		}
		if insight := d.detectMaturity(group.theme, group.members); insight != nil {
			report.Insights = append(report.Insights, insight)
		}
	}
	report.AbandonmentEvidence = d.collectAbandonment(projects)
	return report, nil
}

type themeGroup struct {
	theme   string
	members []*entities.Item
}

// themeGroups returns the 3 most populous theme groups, members in
// chronological order. Groups need at least 2 members to be considered at
// all; the maturity check applies its own higher floor.
func (d *EvolutionDetector) themeGroups(ordered []*entities.Item) []themeGroup {
	byTheme := make(map[string][]*entities.Item)
	themeOrder := make([]string, 0)
	for _, note := range ordered {
		for _, theme := range note.Themes() {
			theme = strings.TrimSpace(strings.ToLower(theme))
			if theme == "" {
				continue
			}
			if _, seen := byTheme[theme]; !seen {
				themeOrder = append(themeOrder, theme)
			}
			byTheme[theme] = append(byTheme[theme], note)
		}
	}

	groups := make([]themeGroup, 0, len(themeOrder))
	for _, theme := range themeOrder {
		if len(byTheme[theme]) >= minCollisionMembers {
			groups = append(groups, themeGroup{theme: theme, members: byTheme[theme]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].members) > len(groups[j].members)
	})
	if len(groups) > topThemeGroups {
		groups = groups[:topThemeGroups]
	}
	return groups
}

// detectCollision pairs the earliest positive-toned and earliest
// negative-toned member of a theme group. Later occurrences are ignored;
// the first matching pair is the one reported.
func (d *EvolutionDetector) detectCollision(theme string, members []*entities.Item) *entities.PatternInsight {
	positive := firstMatchingTone(members, positiveTones)
	negative := firstMatchingTone(members, negativeTones)
	if positive == nil || negative == nil {
		return nil
	}

	insight, err := entities.NewPatternInsight(
		entities.InsightCollision,
		fmt.Sprintf("Shifting feelings about %s", theme),
		fmt.Sprintf("On %s you were %s about %s; by %s you were %s.",
			positive.CreatedAt().Format("Jan 2, 2006"), positive.Tone(), theme,
			negative.CreatedAt().Format("Jan 2, 2006"), negative.Tone()),
	)
	if err != nil {
		return nil
	}
	return insight.WithData(map[string]interface{}{
		"theme":          theme,
		"note_ids":       []string{positive.ID(), negative.ID()},
		"positive_id":    positive.ID(),
		"positive_date":  positive.CreatedAt().Format("2006-01-02"),
		"positive_quote": positive.Snippet(quoteLength),
		"negative_id":    negative.ID(),
		"negative_date":  negative.CreatedAt().Format("2006-01-02"),
		"negative_quote": negative.Snippet(quoteLength),
	})
}

// detectMaturity splits a theme's members chronologically in half and looks
// for learning language early and completion language late.
func (d *EvolutionDetector) detectMaturity(theme string, members []*entities.Item) *entities.PatternInsight {
	if len(members) < minEvolutionMembers {
		return nil
	}

	half := len(members) / 2
	earlier, later := members[:half], members[half:]
	if !anyContainsPhrase(earlier, learningPhrases) || !anyContainsPhrase(later, completionPhrases) {
		return nil
	}

	insight, err := entities.NewPatternInsight(
		entities.InsightEvolution,
		fmt.Sprintf("From learning to building: %s", theme),
		fmt.Sprintf("Your earlier %s notes talk about learning; your recent ones talk about what you built.", theme),
	)
	if err != nil {
		return nil
	}
	return insight.WithData(map[string]interface{}{
		"theme":        theme,
		"member_ids":   memberIDs(members),
		"split_index":  half,
		"member_count": len(members),
	})
}

// collectAbandonment gathers deduplicated {title, reason} evidence for the
// narrative generator. Fewer than 2 abandoned projects is not a pattern.
func (d *EvolutionDetector) collectAbandonment(projects []*entities.Item) []AbandonedProject {
	evidence := make([]AbandonedProject, 0)
	seen := make(map[string]bool)
	for _, project := range projects {
		if !project.Abandoned() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(project.Title()))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		reason := project.AbandonReason()
		if reason == "" {
			reason = project.Status()
		}
		evidence = append(evidence, AbandonedProject{Title: project.Title(), Reason: reason})
	}
	if len(evidence) < minAbandonedProjects {
		return nil
	}
	return evidence
}

// firstMatchingTone returns the chronologically earliest member whose tone
// matches the lexical set.
func firstMatchingTone(members []*entities.Item, tones []string) *entities.Item {
	for _, member := range members {
		tone := strings.ToLower(member.Tone())
		if tone == "" {
			continue
		}
		for _, candidate := range tones {
			if strings.Contains(tone, candidate) {
				return member
			}
		}
	}
	return nil
}

func anyContainsPhrase(members []*entities.Item, phrases []string) bool {
	for _, member := range members {
		text := strings.ToLower(member.Title() + " " + member.Body())
		for _, phrase := range phrases {
			if strings.Contains(text, phrase) {
				return true
			}
		}
	}
	return false
}
