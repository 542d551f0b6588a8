package services

import (
	"regexp"
	"strings"

	"polymath-backend/pkg/errors"
)

// MinQueryLength is the shortest query the scorers accept.
const MinQueryLength = 2

// LexicalWeights are the additive points awarded per match rule.
type LexicalWeights struct {
	ExactMatch int `yaml:"exact_match" json:"exact_match"`
	Prefix     int `yaml:"prefix" json:"prefix"`
	WholeWord  int `yaml:"whole_word" json:"whole_word"`
	Substring  int `yaml:"substring" json:"substring"`
	Occurrence int `yaml:"occurrence" json:"occurrence"`
}

// DefaultLexicalWeights returns the standard scoring table.
func DefaultLexicalWeights() LexicalWeights {
	return LexicalWeights{
		ExactMatch: 100,
		Prefix:     50,
		WholeWord:  30,
		Substring:  10,
		Occurrence: 5,
	}
}

// LexicalScorer produces deterministic text-match scores over candidate
// fields. Scores are additive across all supplied fields; the first field is
// the primary one (title) and is the only field eligible for the exact-match
// bonus.
type LexicalScorer struct {
	weights  LexicalWeights
	analyzer TextAnalyzer
}

// NewLexicalScorer creates a scorer with the given weights.
func NewLexicalScorer(weights LexicalWeights, analyzer TextAnalyzer) *LexicalScorer {
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &LexicalScorer{weights: weights, analyzer: analyzer}
}

// NormalizeQuery lower-cases and trims a raw query, rejecting queries that
// are too short to score.
func NormalizeQuery(raw string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(raw))
	if len(query) < MinQueryLength {
		return "", errors.NewInvalidQueryError("query must be at least 2 characters")
	}
	return query, nil
}

// Score computes the additive lexical score of a normalized query against
// one or more candidate fields, title first. Empty fields contribute 0.
func (s *LexicalScorer) Score(query string, fields ...string) int {
	score := 0
	for i, field := range fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}

		// Exact full-field match only counts against the primary field.
		if i == 0 && field == query {
			score += s.weights.ExactMatch
		}
		if strings.HasPrefix(field, query) {
			score += s.weights.Prefix
		}
		if s.matchesWholeWord(field, query) {
			score += s.weights.WholeWord
		}
		if strings.Contains(field, query) {
			score += s.weights.Substring
		}
		score += s.weights.Occurrence * countOccurrences(field, query)
	}
	return score
}

// matchesWholeWord reports whether the query equals a tokenized word of the
// field.
func (s *LexicalScorer) matchesWholeWord(field, query string) bool {
	return s.analyzer.TokenizeWords(field)[query]
}

// countOccurrences counts regex matches of the query substring in the field.
func countOccurrences(field, query string) int {
	re, err := regexp.Compile(regexp.QuoteMeta(query))
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(field, -1))
}
