package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/divvy/internal/models"
)

// Valuation zone labels.
const (
	ZoneBuy    = "Buy Zone"
	ZoneWatch  = "Watch Zone"
	ZoneSell   = "Sell Zone"
	ZoneHold   = "Hold Zone"
	ZoneFailed = "Failed Quality"
)

// Analyze scores a snapshot against the resolved regional criteria and
// derives the yield-band recommendation. The result is created fresh per
// call and never mutated afterwards.
func (s *Service) Analyze(_ context.Context, snapshot *models.StockSnapshot, mode string) *models.AnalysisResult {
	criteria := ResolveCriteria(snapshot.Currency, mode)

	result := &models.AnalysisResult{
		ID:         uuid.NewString(),
		Ticker:     snapshot.Ticker,
		Mode:       mode,
		EPSSource:  snapshot.EPS.Source,
		Criteria:   criteria,
		AnalyzedAt: time.Now(),
	}

	// The five gating criteria, in fixed order. Each is actual ≥ threshold.
	record(result, "Dividend Increases",
		snapshot.DividendIncreases12Y >= criteria.DividendIncreasesMin,
		fmt.Sprintf("%d", snapshot.DividendIncreases12Y),
		fmt.Sprintf("%d", criteria.DividendIncreasesMin))

	record(result, "Shares Outstanding",
		snapshot.SharesOutstandingM >= criteria.SharesOutstandingMinM,
		fmt.Sprintf("%.1fM", snapshot.SharesOutstandingM),
		fmt.Sprintf("%.1fM", criteria.SharesOutstandingMinM))

	record(result, "Institutional Holders",
		snapshot.InstitutionalHolders >= criteria.InstitutionalHoldersMin,
		fmt.Sprintf("%d", snapshot.InstitutionalHolders),
		fmt.Sprintf("%d", criteria.InstitutionalHoldersMin))

	record(result, "EPS Increases",
		snapshot.EPS.Increases >= criteria.EPSIncreasesMin,
		fmt.Sprintf("%d", snapshot.EPS.Increases),
		fmt.Sprintf("%d", criteria.EPSIncreasesMin))

	record(result, "Consecutive Dividend Years",
		snapshot.ConsecutiveDividendYears >= criteria.ConsecutiveDividendMin,
		fmt.Sprintf("%d", snapshot.ConsecutiveDividendYears),
		fmt.Sprintf("%d", criteria.ConsecutiveDividendMin))

	result.QualityOK = len(result.Failed) == 0

	// Sixth criterion: dividend status is informational and never gates.
	result.Passed = append(result.Passed, models.CriterionResult{
		Name:          "Dividend Status (Optional)",
		Actual:        snapshot.DividendStatus,
		Passed:        true,
		Informational: true,
	})

	if snapshot.CurrentPrice > 0 {
		result.CurrentYield = snapshot.AnnualDividend / snapshot.CurrentPrice * 100
	}

	result.BuyYield = snapshot.HighYield * 0.80
	result.WatchYield = snapshot.HighYield * 0.70
	result.SellYield = snapshot.LowYield * 1.20

	switch {
	// A zero yield range means no valuation signal (no price history or
	// no dividend), not a literal zero-yield stock.
	case snapshot.HighYield == 0 && snapshot.LowYield == 0:
		result.Recommendation = models.RecommendationHold
		result.Zone = ZoneHold
	case result.CurrentYield >= result.BuyYield:
		result.Recommendation = models.RecommendationBuy
		result.Zone = ZoneBuy
	case result.CurrentYield >= result.WatchYield:
		result.Recommendation = models.RecommendationWatch
		result.Zone = ZoneWatch
	case result.CurrentYield <= result.SellYield:
		result.Recommendation = models.RecommendationSell
		result.Zone = ZoneSell
	default:
		result.Recommendation = models.RecommendationHold
		result.Zone = ZoneHold
	}

	// Valuation is only meaningful for quality-screened names.
	if !result.QualityOK {
		result.Recommendation = models.RecommendationDoesNotQualify
		result.Zone = ZoneFailed
	}

	return result
}

func record(result *models.AnalysisResult, name string, passed bool, actual, required string) {
	criterion := models.CriterionResult{
		Name:     name,
		Actual:   actual,
		Required: required,
		Passed:   passed,
	}
	if passed {
		result.Passed = append(result.Passed, criterion)
	} else {
		result.Failed = append(result.Failed, criterion)
	}
}
