package screener

import (
	"context"
	"testing"

	"github.com/bobmcallan/divvy/internal/models"
)

// qualifyingSnapshot passes every balanced USD criterion and sits deep
// in the buy band (current yield 4.0 against buy threshold 3.2).
func qualifyingSnapshot() *models.StockSnapshot {
	return &models.StockSnapshot{
		Ticker:                   "KO",
		Currency:                 "USD",
		CurrentPrice:             50.0,
		AnnualDividend:           2.0,
		SharesOutstandingM:       4300.0,
		InstitutionalHolders:     120,
		DividendIncreases12Y:     11,
		ConsecutiveDividendYears: 61,
		DividendStatus:           StatusKing,
		HighYield:                4.0,
		LowYield:                 2.0,
		EPS:                      models.EPSResolution{Increases: 6, Source: models.EPSSourcePrimary},
	}
}

func TestAnalyzeBuy(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})

	result := svc.Analyze(context.Background(), qualifyingSnapshot(), ModeBalanced)

	if !result.QualityOK {
		t.Fatalf("expected quality pass, failed criteria: %+v", result.Failed)
	}
	if result.Recommendation != models.RecommendationBuy {
		t.Errorf("expected BUY, got %s", result.Recommendation)
	}
	if result.Zone != ZoneBuy {
		t.Errorf("expected %q, got %q", ZoneBuy, result.Zone)
	}
	if result.BuyYield != 3.2 {
		t.Errorf("expected buy threshold 3.2, got %v", result.BuyYield)
	}
	if result.CurrentYield != 4.0 {
		t.Errorf("expected current yield 4.0, got %v", result.CurrentYield)
	}
	if result.ID == "" {
		t.Error("expected a generated result ID")
	}
}

func TestAnalyzeWatch(t *testing.T) {
	snapshot := qualifyingSnapshot()
	// Yield 3.0: below buy (3.2), at or above watch (2.8).
	snapshot.CurrentPrice = 200.0
	snapshot.AnnualDividend = 6.0

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if result.Recommendation != models.RecommendationWatch {
		t.Errorf("expected WATCH at yield %v, got %s", result.CurrentYield, result.Recommendation)
	}
	if result.Zone != ZoneWatch {
		t.Errorf("expected %q, got %q", ZoneWatch, result.Zone)
	}
}

func TestAnalyzeSell(t *testing.T) {
	snapshot := qualifyingSnapshot()
	// Yield 2.0: at the sell threshold (low 2.0 * 1.20 = 2.4).
	snapshot.CurrentPrice = 100.0

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if result.Recommendation != models.RecommendationSell {
		t.Errorf("expected SELL at yield %v, got %s", result.CurrentYield, result.Recommendation)
	}
}

func TestAnalyzeHoldBetweenBands(t *testing.T) {
	snapshot := qualifyingSnapshot()
	// Yield 2.5: below watch (2.8), above sell (2.4).
	snapshot.CurrentPrice = 80.0

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if result.Recommendation != models.RecommendationHold {
		t.Errorf("expected HOLD at yield %v, got %s", result.CurrentYield, result.Recommendation)
	}
	if result.Zone != ZoneHold {
		t.Errorf("expected %q, got %q", ZoneHold, result.Zone)
	}
}

func TestAnalyzeQualityGateOverridesValuation(t *testing.T) {
	snapshot := qualifyingSnapshot()
	snapshot.EPS = models.EPSResolution{Increases: 2, Source: models.EPSSourceHeuristic}

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if result.QualityOK {
		t.Fatal("expected quality failure with 2 EPS increases")
	}
	if result.Recommendation != models.RecommendationDoesNotQualify {
		t.Errorf("quality gate must override the buy band, got %s", result.Recommendation)
	}
	if result.Zone != ZoneFailed {
		t.Errorf("expected %q, got %q", ZoneFailed, result.Zone)
	}
	if len(result.Failed) != 1 || result.Failed[0].Name != "EPS Increases" {
		t.Errorf("unexpected failed criteria: %+v", result.Failed)
	}
}

func TestAnalyzeZeroYieldRangeHolds(t *testing.T) {
	snapshot := qualifyingSnapshot()
	snapshot.HighYield = 0
	snapshot.LowYield = 0

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if result.Recommendation != models.RecommendationHold {
		t.Errorf("a zero yield range carries no signal, expected HOLD, got %s", result.Recommendation)
	}
}

func TestAnalyzeStatusCriterionIsInformational(t *testing.T) {
	snapshot := qualifyingSnapshot()
	snapshot.DividendStatus = ""
	snapshot.ConsecutiveDividendYears = 12 // above the 10-year gate, below any status label

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})
	result := svc.Analyze(context.Background(), snapshot, ModeBalanced)

	if !result.QualityOK {
		t.Fatalf("status must never gate quality, failed: %+v", result.Failed)
	}

	var status *models.CriterionResult
	for i := range result.Passed {
		if result.Passed[i].Informational {
			status = &result.Passed[i]
		}
	}
	if status == nil {
		t.Fatal("expected an informational status criterion")
	}
	if status.Name != "Dividend Status (Optional)" {
		t.Errorf("unexpected criterion name %q", status.Name)
	}
}

func TestAnalyzeAggressiveModeRelaxesGate(t *testing.T) {
	snapshot := qualifyingSnapshot()
	snapshot.DividendIncreases12Y = 4
	snapshot.ConsecutiveDividendYears = 6
	snapshot.EPS.Increases = 3

	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})

	balanced := svc.Analyze(context.Background(), snapshot, ModeBalanced)
	if balanced.QualityOK {
		t.Fatal("expected balanced mode to fail this snapshot")
	}

	aggressive := svc.Analyze(context.Background(), snapshot, ModeAggressive)
	if !aggressive.QualityOK {
		t.Fatalf("expected aggressive mode to pass, failed: %+v", aggressive.Failed)
	}
	if aggressive.Recommendation != models.RecommendationBuy {
		t.Errorf("expected BUY in aggressive mode, got %s", aggressive.Recommendation)
	}
}
