package entities

import (
	"strings"
	"time"

	"polymath-backend/pkg/errors"
)

// Kind identifies which collection an item belongs to.
type Kind string

const (
	KindNote    Kind = "note"
	KindProject Kind = "project"
	KindArticle Kind = "article"
)

// Valid reports whether the kind is one of the three item collections.
func (k Kind) Valid() bool {
	return k == KindNote || k == KindProject || k == KindArticle
}

// Item is a note, project, or article participating in search and ranking.
//
// Themes and Embedding are populated by background enrichment and may be
// absent; every consumer must tolerate partially-enriched items. Embedding,
// when present, has the same dimensionality across all kinds so that
// cross-kind vector scores are comparable.
type Item struct {
	id        string
	kind      Kind
	userID    string
	title     string
	body      string
	tags      []string
	themes    []string
	tone      string
	createdAt time.Time
	embedding []float32

	// entityCount is the number of structured entities enrichment linked to
	// this item. Opaque to the core; feeds review priority.
	entityCount int

	// Project-only fields.
	status        string
	abandonReason string
}

// NewItem validates required fields at the boundary and returns a typed item.
func NewItem(id string, kind Kind, userID, title string, createdAt time.Time) (*Item, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("item id is required")
	}
	if !kind.Valid() {
		return nil, errors.NewValidationError("item kind must be note, project, or article")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewValidationError("item user id is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("item title is required")
	}
	if createdAt.IsZero() {
		return nil, errors.NewValidationError("item creation time is required")
	}

	return &Item{
		id:        id,
		kind:      kind,
		userID:    userID,
		title:     title,
		createdAt: createdAt,
	}, nil
}

// ReconstructItem rebuilds an item from persistence without re-validation
// beyond the required fields. Used by repository implementations.
func ReconstructItem(
	id string,
	kind Kind,
	userID, title, body string,
	tags, themes []string,
	tone string,
	createdAt time.Time,
	embedding []float32,
	entityCount int,
) (*Item, error) {
	item, err := NewItem(id, kind, userID, title, createdAt)
	if err != nil {
		return nil, err
	}
	item.body = body
	item.tags = tags
	item.themes = themes
	item.tone = tone
	item.embedding = embedding
	if entityCount > 0 {
		item.entityCount = entityCount
	}
	return item, nil
}

// ID returns the opaque item identifier.
func (i *Item) ID() string { return i.id }

// Kind returns the item collection.
func (i *Item) Kind() Kind { return i.kind }

// UserID returns the owning user.
func (i *Item) UserID() string { return i.userID }

// Title returns the item title.
func (i *Item) Title() string { return i.title }

// Body returns the body or description text. May be empty.
func (i *Item) Body() string { return i.body }

// Tags returns the item's tag labels.
func (i *Item) Tags() []string { return i.tags }

// Themes returns the enrichment-assigned theme labels, possibly empty.
func (i *Item) Themes() []string { return i.themes }

// Tone returns the sentiment label assigned by enrichment, or "".
func (i *Item) Tone() string { return i.tone }

// CreatedAt returns the capture timestamp.
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// Embedding returns the semantic vector, or nil when enrichment has not
// completed yet.
func (i *Item) Embedding() []float32 { return i.embedding }

// HasEmbedding reports whether enrichment produced a vector for this item.
func (i *Item) HasEmbedding() bool { return len(i.embedding) > 0 }

// EntityCount returns the number of linked structured entities.
func (i *Item) EntityCount() int { return i.entityCount }

// Status returns the project status, or "" for non-projects.
func (i *Item) Status() string { return i.status }

// AbandonReason returns why a project was abandoned, or "".
func (i *Item) AbandonReason() string { return i.abandonReason }

// SetBody sets the body/description text.
func (i *Item) SetBody(body string) { i.body = body }

// SetTags replaces the tag labels.
func (i *Item) SetTags(tags []string) { i.tags = tags }

// SetEnrichment applies the results of background enrichment.
func (i *Item) SetEnrichment(themes []string, tone string, embedding []float32, entityCount int) {
	i.themes = themes
	i.tone = tone
	i.embedding = embedding
	i.entityCount = entityCount
}

// SetEmbedding attaches the vector without touching other enrichment
// fields. Used when the embedding lands separately.
func (i *Item) SetEmbedding(embedding []float32) { i.embedding = embedding }

// SetProjectStatus records project lifecycle fields.
func (i *Item) SetProjectStatus(status, abandonReason string) {
	i.status = status
	i.abandonReason = abandonReason
}

// Abandoned reports whether a project was shelved: either the status says so
// or an abandonment reason was recorded.
func (i *Item) Abandoned() bool {
	return i.abandonReason != "" || strings.EqualFold(i.status, "abandoned")
}

// SearchableText returns the fields the lexical scorer runs over, title first.
func (i *Item) SearchableText() (title, body string) {
	return i.title, i.body
}

// Snippet returns a short body excerpt for search results.
func (i *Item) Snippet(maxLen int) string {
	text := strings.TrimSpace(i.body)
	if text == "" {
		text = i.title
	}
	if maxLen > 0 && len(text) > maxLen {
		return strings.TrimSpace(text[:maxLen]) + "..."
	}
	return text
}
