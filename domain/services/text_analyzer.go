package services

import (
	"strings"
	"unicode"
)

// TextAnalyzer provides the text processing primitives the scoring and
// clustering services share.
type TextAnalyzer interface {
	// TokenizeWords breaks text into a set of unique lowercase words.
	TokenizeWords(text string) map[string]bool

	// ExtractKeywords extracts meaningful keywords from text, stop words
	// removed.
	ExtractKeywords(text string) []string

	// SignificantTitleWords returns, in order of appearance, up to max title
	// words strictly longer than minLen characters.
	SignificantTitleWords(title string, minLen, max int) []string
}

// DefaultTextAnalyzer implements TextAnalyzer with simple rune-level
// tokenization and an English stop-word list.
type DefaultTextAnalyzer struct {
	stopWords map[string]bool
}

// NewDefaultTextAnalyzer creates a text analyzer with common English stop words.
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	stop := make(map[string]bool, len(stopWordList))
	for _, w := range stopWordList {
		stop[w] = true
	}
	return &DefaultTextAnalyzer{stopWords: stop}
}

// TokenizeWords breaks text into a set of unique lowercase words.
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range tokenize(text) {
		if len(word) > 1 {
			words[word] = true
		}
	}
	return words
}

// ExtractKeywords extracts meaningful keywords from text.
func (ta *DefaultTextAnalyzer) ExtractKeywords(text string) []string {
	keywords := make([]string, 0)
	seen := make(map[string]bool)
	for _, word := range tokenize(text) {
		if len(word) > 2 && !ta.stopWords[word] && !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// SignificantTitleWords returns up to max in-order title words longer than
// minLen characters.
func (ta *DefaultTextAnalyzer) SignificantTitleWords(title string, minLen, max int) []string {
	significant := make([]string, 0, max)
	for _, word := range tokenize(title) {
		if len(word) > minLen {
			significant = append(significant, word)
			if len(significant) == max {
				break
			}
		}
	}
	return significant
}

// tokenize lower-cases text and splits it on non-alphanumeric runes,
// preserving word order.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	words := make([]string, 0)

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return words
}

var stopWordList = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"into", "year", "your", "some", "could", "them", "see", "other", "than",
	"then", "now", "only", "its", "over", "think", "also", "back", "after",
	"use", "two", "how", "our", "first", "well", "way", "even", "new", "want",
	"because", "any", "these", "give", "day", "most", "us", "is", "was",
	"are", "been", "has", "had", "were", "said", "did", "having", "may",
	"am", "should", "too", "very",
}
