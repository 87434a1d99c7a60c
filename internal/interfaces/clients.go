// Package interfaces defines service contracts for Divvy
package interfaces

import (
	"context"

	"github.com/bobmcallan/divvy/internal/models"
)

// MarketDataClient provides access to the primary market-data provider.
// Absent fields in provider responses are returned as 0/empty, not errors.
type MarketDataClient interface {
	// GetSnapshot retrieves the basic quote snapshot for a ticker:
	// price, annual dividend rate, shares outstanding, institutional
	// holder count, currency and display name.
	GetSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error)

	// GetDividendHistory retrieves the full dividend payment history.
	GetDividendHistory(ctx context.Context, ticker string) (models.DividendSeries, error)

	// GetPriceHistory retrieves trailing daily closes for the given
	// number of years.
	GetPriceHistory(ctx context.Context, ticker string, years int) (models.PriceSeries, error)

	// GetEarningsHistory retrieves whatever annual earnings records the
	// provider exposes. Typically only a few recent periods.
	GetEarningsHistory(ctx context.Context, ticker string) ([]models.EarningsRecord, error)
}

// RegistryClient provides access to the fundamentals registry (SEC EDGAR).
type RegistryClient interface {
	// GetDirectory retrieves the full ticker→identifier directory.
	GetDirectory(ctx context.Context) (map[string]string, error)

	// GetAnnualEPS retrieves annual-report EPS values by fiscal year for
	// an identifier, scanning candidate concepts in priority order.
	GetAnnualEPS(ctx context.Context, identifier string) (map[int]float64, error)
}

// ScrapeClient provides access to the secondary web source for EPS data.
type ScrapeClient interface {
	// GetAnnualEPS extracts year→EPS pairs from the issuer's EPS page.
	GetAnnualEPS(ctx context.Context, ticker string) (map[int]float64, error)
}
