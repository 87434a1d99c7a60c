package screener

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bobmcallan/divvy/internal/models"
)

// stageTimeout bounds each EPS source so no stage can block the chain.
const stageTimeout = 20 * time.Second

// minEPSYears is the minimum number of distinct fiscal years a source
// must report before its increase count is trusted.
const minEPSYears = 2

// epsSource is one strategy in the ordered fallback chain. It returns
// (count, true) on success; any error or data shortfall is reported as
// (0, false) and control passes to the next source. Sources never
// propagate hard failures.
type epsSource struct {
	label   string
	resolve func(ctx context.Context, ticker string) (int, bool)
}

// ResolveEPSIncreases runs the ordered fallback chain for a ticker. Each
// source is only tried when the previous one came back empty. When every
// source is empty the result is a zero count with the "unavailable" label;
// the chain itself never fails.
//
// dividendIncreases feeds the terminal heuristic and comes from the
// dividend series already derived for the snapshot.
func (s *Service) ResolveEPSIncreases(ctx context.Context, ticker string, dividendIncreases int) models.EPSResolution {
	sources := []epsSource{
		{label: models.EPSSourcePrimary, resolve: s.epsFromProvider},
		{label: models.EPSSourceRegistry, resolve: s.epsFromRegistry},
		{label: models.EPSSourceScrape, resolve: s.epsFromScrape},
		{label: models.EPSSourceHeuristic, resolve: func(ctx context.Context, _ string) (int, bool) {
			return epsFromDividendTrend(dividendIncreases)
		}},
	}

	for _, source := range sources {
		stageCtx, cancel := context.WithTimeout(ctx, stageTimeout)
		count, ok := source.resolve(stageCtx, ticker)
		cancel()

		if ok {
			s.logger.Info().
				Str("ticker", ticker).
				Str("source", source.label).
				Int("increases", count).
				Msg("EPS increases resolved")
			return models.EPSResolution{Increases: count, Source: source.label}
		}

		s.logger.Debug().Str("ticker", ticker).Str("source", source.label).Msg("EPS source empty, trying next")
	}

	return models.EPSResolution{Increases: 0, Source: models.EPSSourceUnavailable}
}

// epsFromProvider derives the count from the primary provider's own
// earnings records. Providers rarely report more than a few recent
// periods, so this source is expected to come back empty routinely.
func (s *Service) epsFromProvider(ctx context.Context, ticker string) (int, bool) {
	if s.provider == nil {
		return 0, false
	}

	records, err := s.provider.GetEarningsHistory(ctx, ticker)
	if err != nil {
		s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Provider earnings history unavailable")
		return 0, false
	}

	byYear := make(map[int]float64, len(records))
	for _, r := range records {
		byYear[r.FiscalYear] = r.EPS
	}

	if len(byYear) < minEPSYears {
		return 0, false
	}

	return countRecentIncreases(byYear, WindowYears), true
}

// epsFromRegistry resolves the ticker to its registry identifier and
// queries the structured companyfacts endpoint. A ticker absent from the
// directory skips this source without retrying — the directory only
// covers registry-tracked issuers.
func (s *Service) epsFromRegistry(ctx context.Context, ticker string) (int, bool) {
	if s.registry == nil {
		return 0, false
	}

	identifier, err := s.resolveIdentifier(ctx, ticker)
	if err != nil {
		if !errors.Is(err, models.ErrTickerNotFound) {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Identifier resolution failed")
		}
		return 0, false
	}

	annual, err := s.registry.GetAnnualEPS(ctx, identifier)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Str("cik", identifier).Err(err).Msg("Registry EPS fetch failed")
		return 0, false
	}

	if len(annual) < minEPSYears {
		return 0, false
	}

	return countRecentIncreases(annual, WindowYears), true
}

// epsFromScrape extracts year/value pairs from the secondary web source.
// Parse and network failures degrade to empty, never a hard failure.
func (s *Service) epsFromScrape(ctx context.Context, ticker string) (int, bool) {
	if s.scraper == nil {
		return 0, false
	}

	annual, err := s.scraper.GetAnnualEPS(ctx, ticker)
	if err != nil {
		s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Secondary EPS scrape failed")
		return 0, false
	}

	if len(annual) < minEPSYears {
		return 0, false
	}

	return countRecentIncreases(annual, WindowYears), true
}

// epsFromDividendTrend estimates EPS growth from the dividend trend. A
// company raising its dividend in at least 3 of the window years almost
// certainly grew earnings; the 0.7 factor discounts payout-ratio drift.
// Below that bar the heuristic yields nothing.
func epsFromDividendTrend(dividendIncreases int) (int, bool) {
	if dividendIncreases < 3 {
		return 0, false
	}

	estimate := int(math.Floor(float64(dividendIncreases) * 0.7))
	if estimate < 3 {
		estimate = 3
	}
	return estimate, true
}

// resolveIdentifier maps a ticker to its registry identifier via the
// cached bulk directory. Lookup is case-insensitive exact match; absence
// is reported with models.ErrTickerNotFound.
func (s *Service) resolveIdentifier(ctx context.Context, ticker string) (string, error) {
	directory, err := s.cache.Directory().GetDirectory(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Directory cache read failed")
	}

	if directory == nil {
		directory, err = s.registry.GetDirectory(ctx)
		if err != nil {
			return "", err
		}
		if err := s.cache.Directory().SaveDirectory(ctx, directory); err != nil {
			s.logger.Warn().Err(err).Msg("Directory cache write failed")
		}
	}

	identifier, ok := directory[normalizeTicker(ticker)]
	if !ok {
		return "", models.ErrTickerNotFound
	}
	return identifier, nil
}
