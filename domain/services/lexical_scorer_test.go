package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/pkg/errors"
)

func newTestScorer() *LexicalScorer {
	return NewLexicalScorer(DefaultLexicalWeights(), NewDefaultTextAnalyzer())
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "lowercases and trims", raw: "  Rust  ", want: "rust"},
		{name: "too short", raw: "a", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "exactly two chars", raw: "go", want: "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeQuery(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidQuery(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexicalScorer_ExactSelfMatchScoresHigh(t *testing.T) {
	scorer := newTestScorer()

	// A query used as its own sole field triggers exact, prefix, word,
	// substring, and one occurrence.
	score := scorer.Score("rust", "rust")

	assert.GreaterOrEqual(t, score, 100)
	assert.Equal(t, 195, score)
}

func TestLexicalScorer_EmptyFieldsScoreZero(t *testing.T) {
	scorer := newTestScorer()

	assert.Equal(t, 0, scorer.Score("rust", "", ""))
	assert.Equal(t, 0, scorer.Score("rust"))
}

func TestLexicalScorer_ExactOnlyOnPrimaryField(t *testing.T) {
	scorer := newTestScorer()

	primary := scorer.Score("rust", "rust", "something else")
	secondary := scorer.Score("rust", "something else", "rust")

	// Secondary field gets prefix+word+substring+occurrence but not exact.
	assert.Equal(t, 195, primary)
	assert.Equal(t, 95, secondary)
}

func TestLexicalScorer_PrefixMatch(t *testing.T) {
	scorer := newTestScorer()

	// prefix + substring + occurrence, no whole-word or exact match.
	score := scorer.Score("rust", "rustacean adventures")

	assert.Equal(t, 50+10+5, score)
}

func TestLexicalScorer_WholeWordMatch(t *testing.T) {
	scorer := newTestScorer()

	// word + substring + occurrence, no prefix.
	score := scorer.Score("rust", "learning rust daily")

	assert.Equal(t, 30+10+5, score)
}

func TestLexicalScorer_OccurrenceCounting(t *testing.T) {
	scorer := newTestScorer()

	// "go" appears three times: word+substring plus 3 occurrences.
	score := scorer.Score("go", "go go go")

	assert.Equal(t, 50+30+10+3*5, score)
}

func TestLexicalScorer_AdditiveAcrossFields(t *testing.T) {
	scorer := newTestScorer()

	title := scorer.Score("rust", "learning rust")
	both := scorer.Score("rust", "learning rust", "rust keeps coming up in rust meetups")

	assert.Greater(t, both, title)
}

func TestLexicalScorer_RegexMetacharactersAreLiteral(t *testing.T) {
	scorer := newTestScorer()

	// Query containing regex metacharacters must not panic or misbehave.
	score := scorer.Score("c++", "notes on c++ templates")

	assert.Greater(t, score, 0)
}
