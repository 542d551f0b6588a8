// Package memory provides in-memory implementations of the persistence
// ports. They back local development without Supabase credentials and the
// application-layer tests.
package memory

import (
	"context"
	"sync"
	"time"

	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// ItemStore holds items in memory, keyed by user.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string][]*entities.Item // userID -> items
}

// NewItemStore creates an empty in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[string][]*entities.Item)}
}

// Seed adds items for a user.
func (s *ItemStore) Seed(userID string, items ...*entities.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = append(s.items[userID], items...)
}

// ItemsByKind returns the user's items of one kind.
func (s *ItemStore) ItemsByKind(ctx context.Context, userID string, kind entities.Kind) ([]*entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Item
	for _, item := range s.items[userID] {
		if item.Kind() == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

// Users lists the user IDs with at least one item.
func (s *ItemStore) Users(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.items))
	for userID, items := range s.items {
		if len(items) > 0 {
			users = append(users, userID)
		}
	}
	return users, nil
}

// MissingEmbeddings returns items lacking a vector, up to limit.
func (s *ItemStore) MissingEmbeddings(ctx context.Context, limit int) ([]*entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Item
	for _, items := range s.items {
		for _, item := range items {
			if item.HasEmbedding() {
				continue
			}
			out = append(out, item)
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// SaveEmbedding attaches a vector to the item.
func (s *ItemStore) SaveEmbedding(ctx context.Context, itemID string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, items := range s.items {
		for _, item := range items {
			if item.ID() == itemID {
				item.SetEmbedding(vector)
				return nil
			}
		}
	}
	return errors.NewNotFoundError("item")
}

// ReviewStore holds review states in memory.
type ReviewStore struct {
	mu     sync.RWMutex
	states map[string]map[string]*entities.ReviewState // userID -> noteID -> state
	items  *ItemStore
}

// NewReviewStore creates an empty review store. The item store is consulted
// to anchor first reviews at the note's creation time.
func NewReviewStore(items *ItemStore) *ReviewStore {
	return &ReviewStore{
		states: make(map[string]map[string]*entities.ReviewState),
		items:  items,
	}
}

// States returns every review state for the user, keyed by note ID.
func (s *ReviewStore) States(ctx context.Context, userID string) (map[string]*entities.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*entities.ReviewState, len(s.states[userID]))
	for noteID, state := range s.states[userID] {
		copied := *state
		out[noteID] = &copied
	}
	return out, nil
}

// MarkReviewed increments the note's review count, creating the state from
// the note's creation time if this is the first review. Last write wins.
func (s *ReviewStore) MarkReviewed(ctx context.Context, userID, noteID string, now time.Time) (*entities.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userStates := s.states[userID]
	if userStates == nil {
		userStates = make(map[string]*entities.ReviewState)
		s.states[userID] = userStates
	}

	state := userStates[noteID]
	if state == nil {
		note, err := s.findNote(ctx, userID, noteID)
		if err != nil {
			return nil, err
		}
		state, err = entities.NewReviewState(noteID, note.CreatedAt())
		if err != nil {
			return nil, err
		}
		userStates[noteID] = state
	}

	state.MarkReviewed(now)
	copied := *state
	return &copied, nil
}

func (s *ReviewStore) findNote(ctx context.Context, userID, noteID string) (*entities.Item, error) {
	if s.items == nil {
		return nil, errors.NewNotFoundError("note")
	}
	notes, err := s.items.ItemsByKind(ctx, userID, entities.KindNote)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		if note.ID() == noteID {
			return note, nil
		}
	}
	return nil, errors.NewNotFoundError("note")
}

// InsightCache is a TTL map over serialized insight payloads.
type InsightCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]*entities.CachedAt // userID -> insightType -> entry
}

// NewInsightCache creates an empty cache.
func NewInsightCache() *InsightCache {
	return &InsightCache{entries: make(map[string]map[string]*entities.CachedAt)}
}

// Get returns the cached entry, or (nil, nil) on a miss. Expiry is the
// caller's concern.
func (c *InsightCache) Get(ctx context.Context, userID string, insightType string) (*entities.CachedAt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry := c.entries[userID][insightType]
	if entry == nil {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

// Put stores a serialized payload under (user, insight type).
func (c *InsightCache) Put(ctx context.Context, userID string, insightType string, data []byte, expiresAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[userID] == nil {
		c.entries[userID] = make(map[string]*entities.CachedAt)
	}
	c.entries[userID][insightType] = &entities.CachedAt{Data: data, ExpiresAt: expiresAt}
	return nil
}

// InvalidateUser drops every cached insight for the user.
func (c *InsightCache) InvalidateUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}
