package interfaces

import (
	"context"

	"github.com/bobmcallan/divvy/internal/models"
)

// ScreenerService fetches snapshots and produces quality/valuation analyses.
type ScreenerService interface {
	// FetchSnapshot builds (or serves from cache) a fully enriched
	// snapshot for a ticker. The only hard failure is a malformed or
	// empty ticker, or the primary provider returning nothing at all.
	FetchSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error)

	// Analyze scores a snapshot against the resolved regional criteria.
	// Mode is "Balanced" or "Aggressive".
	Analyze(ctx context.Context, snapshot *models.StockSnapshot, mode string) *models.AnalysisResult

	// ResolveCriteria returns the threshold set for a (currency, mode) pair.
	ResolveCriteria(currency, mode string) models.RegionalCriteria
}
