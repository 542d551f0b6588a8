package supabase

import (
	"context"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// reviewRow is the PostgREST shape of the review_states table.
type reviewRow struct {
	UserID         string    `json:"user_id"`
	NoteID         string    `json:"note_id"`
	ReviewCount    int       `json:"review_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// ReviewStore persists per-note review bookkeeping.
type ReviewStore struct {
	client     *supa.Client
	table      string
	itemsTable string
	logger     *zap.Logger
}

// NewReviewStore creates a review store. The items table is consulted to
// anchor first reviews at the note's creation time.
func NewReviewStore(client *supa.Client, table, itemsTable string, logger *zap.Logger) *ReviewStore {
	return &ReviewStore{client: client, table: table, itemsTable: itemsTable, logger: logger}
}

// States returns every review state for the user, keyed by note ID.
func (s *ReviewStore) States(ctx context.Context, userID string) (map[string]*entities.ReviewState, error) {
	var rows []reviewRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("query review states", err)
	}

	states := make(map[string]*entities.ReviewState, len(rows))
	for _, row := range rows {
		states[row.NoteID] = &entities.ReviewState{
			NoteID:         row.NoteID,
			ReviewCount:    row.ReviewCount,
			LastReviewedAt: row.LastReviewedAt,
		}
	}
	return states, nil
}

// MarkReviewed performs the read-increment-write. No row yet means this is
// the first review, so the state is created from the note's creation time.
// Concurrent marks on the same note are last-write-wins.
func (s *ReviewStore) MarkReviewed(ctx context.Context, userID, noteID string, now time.Time) (*entities.ReviewState, error) {
	var rows []reviewRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("note_id", noteID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("read review state", err)
	}

	var state *entities.ReviewState
	if len(rows) > 0 {
		state = &entities.ReviewState{
			NoteID:         rows[0].NoteID,
			ReviewCount:    rows[0].ReviewCount,
			LastReviewedAt: rows[0].LastReviewedAt,
		}
	} else {
		createdAt, err := s.noteCreatedAt(ctx, userID, noteID)
		if err != nil {
			return nil, err
		}
		state, err = entities.NewReviewState(noteID, createdAt)
		if err != nil {
			return nil, err
		}
	}

	state.MarkReviewed(now)

	row := reviewRow{
		UserID:         userID,
		NoteID:         noteID,
		ReviewCount:    state.ReviewCount,
		LastReviewedAt: state.LastReviewedAt,
	}
	_, _, err = s.client.From(s.table).
		Insert(row, true, "user_id,note_id", "", "").
		Execute()
	if err != nil {
		return nil, errors.NewDatabaseError("write review state", err)
	}

	s.logger.Debug("review state written",
		zap.String("note_id", noteID),
		zap.Int("review_count", state.ReviewCount),
	)
	return state, nil
}

// noteCreatedAt looks up the note's creation time, verifying it exists and
// belongs to the user.
func (s *ReviewStore) noteCreatedAt(ctx context.Context, userID, noteID string) (time.Time, error) {
	var rows []struct {
		CreatedAt time.Time `json:"created_at"`
	}
	_, err := s.client.From(s.itemsTable).
		Select("created_at", "", false).
		Eq("user_id", userID).
		Eq("id", noteID).
		Eq("kind", string(entities.KindNote)).
		ExecuteTo(&rows)
	if err != nil {
		return time.Time{}, errors.NewDatabaseError("look up note", err)
	}
	if len(rows) == 0 {
		return time.Time{}, errors.NewNotFoundError("note")
	}
	return rows[0].CreatedAt, nil
}
