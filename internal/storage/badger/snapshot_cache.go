package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/models"
)

// SnapshotEntry wraps a cached snapshot with its storage key.
type SnapshotEntry struct {
	Ticker    string `badgerhold:"key"`
	Snapshot  *models.StockSnapshot
	UpdatedAt time.Time
}

type snapshotCache struct {
	store  *Store
	logger *common.Logger
}

// GetSnapshot returns the cached snapshot for a ticker, or nil when
// absent or older than the snapshot freshness horizon.
func (c *snapshotCache) GetSnapshot(_ context.Context, ticker string) (*models.StockSnapshot, error) {
	key := strings.ToUpper(ticker)

	var entry SnapshotEntry
	err := c.store.db.Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot for %s: %w", key, err)
	}

	if !common.IsFresh(entry.UpdatedAt, common.FreshnessSnapshot) {
		c.logger.Debug().Str("ticker", key).Time("updated_at", entry.UpdatedAt).Msg("Snapshot cache stale")
		return nil, nil
	}

	return entry.Snapshot, nil
}

// SaveSnapshot stores a snapshot keyed by ticker.
func (c *snapshotCache) SaveSnapshot(_ context.Context, snapshot *models.StockSnapshot) error {
	if snapshot == nil || snapshot.Ticker == "" {
		return fmt.Errorf("cannot save empty snapshot")
	}

	key := strings.ToUpper(snapshot.Ticker)
	entry := SnapshotEntry{
		Ticker:    key,
		Snapshot:  snapshot,
		UpdatedAt: time.Now(),
	}
	if err := c.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", key, err)
	}
	return nil
}
