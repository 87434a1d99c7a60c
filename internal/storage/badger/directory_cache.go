package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/divvy/internal/common"
)

const directoryKey = "registry_directory"

// DirectoryEntry holds the full ticker→identifier directory as one record.
// The registry publishes it as a single bulk file, so it is cached whole.
type DirectoryEntry struct {
	Key       string `badgerhold:"key"`
	Entries   map[string]string
	UpdatedAt time.Time
}

type directoryCache struct {
	store  *Store
	logger *common.Logger
}

// GetDirectory returns the cached directory, or nil when absent or older
// than the directory freshness horizon.
func (c *directoryCache) GetDirectory(_ context.Context) (map[string]string, error) {
	var entry DirectoryEntry
	err := c.store.db.Get(directoryKey, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get directory: %w", err)
	}

	if !common.IsFresh(entry.UpdatedAt, common.FreshnessDirectory) {
		c.logger.Debug().Time("updated_at", entry.UpdatedAt).Msg("Directory cache stale")
		return nil, nil
	}

	return entry.Entries, nil
}

// SaveDirectory stores the directory with the current timestamp.
func (c *directoryCache) SaveDirectory(_ context.Context, directory map[string]string) error {
	entry := DirectoryEntry{
		Key:       directoryKey,
		Entries:   directory,
		UpdatedAt: time.Now(),
	}
	if err := c.store.db.Upsert(directoryKey, &entry); err != nil {
		return fmt.Errorf("failed to save directory: %w", err)
	}
	return nil
}
