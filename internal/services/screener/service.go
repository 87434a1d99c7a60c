package screener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
	"github.com/bobmcallan/divvy/internal/models"
)

// priceWindowYears is the trailing window for the historical yield range.
const priceWindowYears = 5

// Service implements ScreenerService
type Service struct {
	cache    interfaces.CacheStore
	provider interfaces.MarketDataClient
	registry interfaces.RegistryClient
	scraper  interfaces.ScrapeClient
	logger   *common.Logger
}

// NewService creates a new screener service
func NewService(
	cache interfaces.CacheStore,
	provider interfaces.MarketDataClient,
	registry interfaces.RegistryClient,
	scraper interfaces.ScrapeClient,
	logger *common.Logger,
) *Service {
	return &Service{
		cache:    cache,
		provider: provider,
		registry: registry,
		scraper:  scraper,
		logger:   logger,
	}
}

// ResolveCriteria returns the threshold set for a (currency, mode) pair.
func (s *Service) ResolveCriteria(currency, mode string) models.RegionalCriteria {
	return ResolveCriteria(currency, mode)
}

// FetchSnapshot builds a fully enriched snapshot for a ticker, serving
// from cache when fresh. A malformed ticker is the only input that
// produces a hard failure; missing provider fields become 0/empty.
func (s *Service) FetchSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker symbol is required")
	}

	if cached, err := s.cache.Snapshots().GetSnapshot(ctx, ticker); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Snapshot cache read failed")
	} else if cached != nil {
		s.logger.Debug().Str("ticker", ticker).Msg("Serving cached snapshot")
		return cached, nil
	}

	snapshot, err := s.provider.GetSnapshot(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot for %s: %w", ticker, err)
	}

	// Dividend and price history degrade to empty on failure — the
	// derived metrics handle empty inputs as valid states.
	dividends, err := s.provider.GetDividendHistory(ctx, ticker)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Dividend history unavailable")
		dividends = models.DividendSeries{}
	}

	prices, err := s.provider.GetPriceHistory(ctx, ticker, priceWindowYears)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price history unavailable")
		prices = models.PriceSeries{}
	}

	referenceYear := time.Now().Year()
	totals := Annualize(dividends)

	snapshot.Dividends = dividends
	snapshot.Prices = prices
	snapshot.DividendIncreases12Y = CountIncreases(totals, WindowYears, referenceYear)
	snapshot.ConsecutiveDividendYears = CountConsecutiveYears(totals, referenceYear)
	snapshot.DividendStatus = ClassifyStatus(snapshot.ConsecutiveDividendYears)
	snapshot.HighYield, snapshot.LowYield = ComputeYieldRange(prices, snapshot.AnnualDividend)
	snapshot.EPS = s.ResolveEPSIncreases(ctx, ticker, snapshot.DividendIncreases12Y)
	snapshot.LastUpdated = time.Now()

	if err := s.cache.Snapshots().SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Snapshot cache write failed")
	}

	return snapshot, nil
}

// normalizeTicker uppercases and trims a ticker symbol.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Ensure Service implements ScreenerService
var _ interfaces.ScreenerService = (*Service)(nil)
