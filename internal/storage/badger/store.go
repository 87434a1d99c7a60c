// Package badger provides BadgerHold-backed TTL caches for the registry
// directory and enriched stock snapshots.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
)

// Store wraps a BadgerHold database connection and exposes the cache areas.
type Store struct {
	db        *badgerhold.Store
	logger    *common.Logger
	directory *directoryCache
	snapshots *snapshotCache
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.directory = &directoryCache{store: s, logger: logger}
	s.snapshots = &snapshotCache{store: s, logger: logger}

	return s, nil
}

// Directory returns the ticker→identifier directory cache.
func (s *Store) Directory() interfaces.DirectoryCache {
	return s.directory
}

// Snapshots returns the stock snapshot cache.
func (s *Store) Snapshots() interfaces.SnapshotCache {
	return s.snapshots
}

// DB returns the underlying badgerhold store.
func (s *Store) DB() *badgerhold.Store {
	return s.db
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements CacheStore
var _ interfaces.CacheStore = (*Store)(nil)
