package supabase

import (
	"context"
	"encoding/json"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"polymath-backend/domain/core/entities"
	"polymath-backend/pkg/errors"
)

// cacheRow is the PostgREST shape of the insight_cache table. The payload is
// stored as a JSON document.
type cacheRow struct {
	UserID      string          `json:"user_id"`
	InsightType string          `json:"insight_type"`
	Payload     json.RawMessage `json:"payload"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// InsightCache persists computed insight payloads keyed by (user, insight
// type). Expiry is wall-clock; expired rows are returned as-is and read as
// misses by the caller, so no background sweeper is needed.
type InsightCache struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

// NewInsightCache creates a cache over the given table.
func NewInsightCache(client *supa.Client, table string, logger *zap.Logger) *InsightCache {
	return &InsightCache{client: client, table: table, logger: logger}
}

// Get returns the cached entry, or (nil, nil) on a miss.
func (c *InsightCache) Get(ctx context.Context, userID string, insightType string) (*entities.CachedAt, error) {
	var rows []cacheRow
	_, err := c.client.From(c.table).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("insight_type", insightType).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewDatabaseError("read insight cache", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &entities.CachedAt{
		Data:      rows[0].Payload,
		ExpiresAt: rows[0].ExpiresAt,
	}, nil
}

// Put upserts the payload under (user, insight type).
func (c *InsightCache) Put(ctx context.Context, userID string, insightType string, data []byte, expiresAt time.Time) error {
	row := cacheRow{
		UserID:      userID,
		InsightType: insightType,
		Payload:     json.RawMessage(data),
		ExpiresAt:   expiresAt,
	}
	_, _, err := c.client.From(c.table).
		Insert(row, true, "user_id,insight_type", "", "").
		Execute()
	if err != nil {
		return errors.NewDatabaseError("write insight cache", err)
	}
	return nil
}

// InvalidateUser drops every cached insight for the user.
func (c *InsightCache) InvalidateUser(ctx context.Context, userID string) error {
	_, _, err := c.client.From(c.table).
		Delete("", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return errors.NewDatabaseError("invalidate insight cache", err)
	}
	c.logger.Debug("insight cache invalidated", zap.String("user_id", userID))
	return nil
}
