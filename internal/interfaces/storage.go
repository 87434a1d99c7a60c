package interfaces

import (
	"context"

	"github.com/bobmcallan/divvy/internal/models"
)

// DirectoryCache caches the ticker→identifier directory with a long TTL.
// Every cached value is independently recomputable from the registry.
type DirectoryCache interface {
	// GetDirectory returns the cached directory, or nil when absent or
	// stale.
	GetDirectory(ctx context.Context) (map[string]string, error)

	// SaveDirectory stores the directory with the current timestamp.
	SaveDirectory(ctx context.Context, directory map[string]string) error
}

// SnapshotCache caches enriched stock snapshots with a short TTL.
type SnapshotCache interface {
	// GetSnapshot returns the cached snapshot for a ticker, or nil when
	// absent or stale.
	GetSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error)

	// SaveSnapshot stores a snapshot keyed by ticker.
	SaveSnapshot(ctx context.Context, snapshot *models.StockSnapshot) error
}

// CacheStore aggregates the cache areas and owns the underlying database.
type CacheStore interface {
	Directory() DirectoryCache
	Snapshots() SnapshotCache
	Close() error
}
