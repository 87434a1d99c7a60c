// Package common provides shared utilities for Divvy
package common

import "time"

// Freshness TTLs for cached data components
const (
	// FreshnessDirectory covers the ticker→CIK directory. The registry
	// republishes it infrequently; a day-old copy is acceptable.
	FreshnessDirectory = 24 * time.Hour

	// FreshnessSnapshot covers a fully enriched stock snapshot, including
	// the resolved EPS increase count.
	FreshnessSnapshot = 1 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
