package supabase

import (
	"context"
	"sort"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// itemRow is the PostgREST shape of the items table.
type itemRow struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Tags          []string  `json:"tags"`
	Themes        []string  `json:"themes"`
	Tone          string    `json:"tone"`
	Embedding     []float32 `json:"embedding"`
	EntityCount   int       `json:"entity_count"`
	Status        string    `json:"status"`
	AbandonReason string    `json:"abandon_reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// ItemStore reads captured items from Supabase. It implements both the item
// source and the embedding sink.
type ItemStore struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

// NewItemStore creates an item store over the given table.
func NewItemStore(client *supa.Client, table string, logger *zap.Logger) *ItemStore {
	return &ItemStore{client: client, table: table, logger: logger}
}

// ItemsByKind returns all of a user's items of one kind.
func (s *ItemStore) ItemsByKind(ctx context.Context, userID string, kind entities.Kind) ([]*entities.Item, error) {
	var rows []itemRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("kind", string(kind)).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("query items", err)
	}

	items := make([]*entities.Item, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			// A malformed row degrades to absence rather than failing the
			// whole query.
			s.logger.Warn("skipping malformed item row",
				zap.String("item_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Users lists distinct user IDs that own items. PostgREST has no DISTINCT,
// so dedupe happens here.
func (s *ItemStore) Users(ctx context.Context) ([]string, error) {
	var rows []struct {
		UserID string `json:"user_id"`
	}
	_, err := s.client.From(s.table).
		Select("user_id", "", false).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("query item owners", err)
	}

	seen := make(map[string]bool, len(rows))
	users := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.UserID == "" || seen[row.UserID] {
			continue
		}
		seen[row.UserID] = true
		users = append(users, row.UserID)
	}
	sort.Strings(users)
	return users, nil
}

// MissingEmbeddings returns items without a vector, oldest first, up to
// limit.
func (s *ItemStore) MissingEmbeddings(ctx context.Context, limit int) ([]*entities.Item, error) {
	var rows []itemRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Is("embedding", "null").
		Limit(limit, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("query unembedded items", err)
	}

	items := make([]*entities.Item, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			s.logger.Warn("skipping malformed item row",
				zap.String("item_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// SaveEmbedding writes the enrichment vector back onto the item row.
func (s *ItemStore) SaveEmbedding(ctx context.Context, itemID string, vector []float32) error {
	_, _, err := s.client.From(s.table).
		Update(map[string]interface{}{"embedding": vector}, "", "").
		Eq("id", itemID).
		Execute()
	if err != nil {
		return errors.NewDatabaseError("save embedding", err)
	}
	return nil
}

func rowToItem(row itemRow) (*entities.Item, error) {
	item, err := entities.ReconstructItem(
		row.ID,
		entities.Kind(row.Kind),
		row.UserID,
		row.Title,
		row.Body,
		row.Tags,
		row.Themes,
		row.Tone,
		row.CreatedAt,
		row.Embedding,
		row.EntityCount,
	)
	if err != nil {
		return nil, err
	}
	if row.Status != "" || row.AbandonReason != "" {
		item.SetProjectStatus(row.Status, row.AbandonReason)
	}
	return item, nil
}
