package common

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	now := time.Now()

	if !IsFresh(now.Add(-30*time.Minute), FreshnessSnapshot) {
		t.Error("a 30-minute-old snapshot is fresh")
	}
	if IsFresh(now.Add(-2*time.Hour), FreshnessSnapshot) {
		t.Error("a 2-hour-old snapshot is stale")
	}
	if !IsFresh(now.Add(-12*time.Hour), FreshnessDirectory) {
		t.Error("a 12-hour-old directory is fresh")
	}
	if IsFresh(time.Time{}, FreshnessDirectory) {
		t.Error("a zero timestamp is never fresh")
	}
}
