package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/divvy/internal/models"
)

func TestFetchSnapshotRequiresTicker(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{}, &fakeRegistry{}, &fakeScraper{})

	if _, err := svc.FetchSnapshot(context.Background(), "   "); err == nil {
		t.Error("expected an error for a blank ticker")
	}
}

func TestFetchSnapshotEnriches(t *testing.T) {
	year := time.Now().Year()
	dividends := models.DividendSeries{}
	amount := 0.25
	for y := year - 8; y < year; y++ {
		dividends = append(dividends,
			models.DividendPayment{Date: time.Date(y, 3, 15, 0, 0, 0, 0, time.UTC), Amount: amount},
			models.DividendPayment{Date: time.Date(y, 9, 15, 0, 0, 0, 0, time.UTC), Amount: amount},
		)
		amount += 0.25
	}

	provider := &fakeProvider{
		snapshot: &models.StockSnapshot{
			Ticker:         "KO",
			Name:           "Coca-Cola Co",
			Currency:       "USD",
			CurrentPrice:   60.0,
			AnnualDividend: 2.0,
		},
		dividends: dividends,
		prices: models.PriceSeries{
			{Date: time.Date(year-1, 6, 1, 0, 0, 0, 0, time.UTC), Close: 50.0},
			{Date: time.Date(year-1, 12, 1, 0, 0, 0, 0, time.UTC), Close: 100.0},
		},
	}
	registry := &fakeRegistry{directoryErr: errors.New("offline")}
	scraper := &fakeScraper{annualEPSErr: errors.New("offline")}
	svc, cache := newTestService(provider, registry, scraper)

	snapshot, err := svc.FetchSnapshot(context.Background(), "ko")
	if err != nil {
		t.Fatalf("FetchSnapshot failed: %v", err)
	}

	if snapshot.DividendIncreases12Y != 7 {
		t.Errorf("expected 7 dividend increases, got %d", snapshot.DividendIncreases12Y)
	}
	if snapshot.ConsecutiveDividendYears != 8 {
		t.Errorf("expected 8 consecutive years, got %d", snapshot.ConsecutiveDividendYears)
	}
	if snapshot.DividendStatus != StatusContender {
		t.Errorf("expected %q, got %q", StatusContender, snapshot.DividendStatus)
	}
	if snapshot.HighYield != 4.0 || snapshot.LowYield != 2.0 {
		t.Errorf("expected yield range (4.0, 2.0), got (%v, %v)", snapshot.HighYield, snapshot.LowYield)
	}
	// Provider and registry are empty and 7 increases clears the trend
	// bar: floor(7 * 0.7) = 4.
	if snapshot.EPS.Source != models.EPSSourceHeuristic || snapshot.EPS.Increases != 4 {
		t.Errorf("unexpected EPS resolution: %+v", snapshot.EPS)
	}
	if snapshot.LastUpdated.IsZero() {
		t.Error("expected LastUpdated to be set")
	}
	if cache.snapshots["KO"] == nil {
		t.Error("expected snapshot persisted to cache")
	}
}

func TestFetchSnapshotServesFromCache(t *testing.T) {
	provider := &fakeProvider{snapshotErr: errors.New("provider down")}
	svc, cache := newTestService(provider, &fakeRegistry{}, &fakeScraper{})

	cached := &models.StockSnapshot{Ticker: "KO", Name: "Coca-Cola Co", LastUpdated: time.Now()}
	cache.snapshots["KO"] = cached

	snapshot, err := svc.FetchSnapshot(context.Background(), "ko")
	if err != nil {
		t.Fatalf("expected cached snapshot, got error: %v", err)
	}
	if snapshot.Name != "Coca-Cola Co" {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestFetchSnapshotProviderFailureIsFatal(t *testing.T) {
	provider := &fakeProvider{snapshotErr: errors.New("provider down")}
	svc, _ := newTestService(provider, &fakeRegistry{}, &fakeScraper{})

	if _, err := svc.FetchSnapshot(context.Background(), "KO"); err == nil {
		t.Error("expected a hard failure when the provider is down")
	}
}

func TestFetchSnapshotDegradesMissingHistory(t *testing.T) {
	provider := &fakeProvider{
		snapshot:     &models.StockSnapshot{Ticker: "NEW", Currency: "USD", CurrentPrice: 10.0},
		dividendsErr: errors.New("no dividend data"),
		pricesErr:    errors.New("no chart data"),
	}
	registry := &fakeRegistry{directoryErr: errors.New("offline")}
	scraper := &fakeScraper{annualEPSErr: errors.New("offline")}
	svc, _ := newTestService(provider, registry, scraper)

	snapshot, err := svc.FetchSnapshot(context.Background(), "NEW")
	if err != nil {
		t.Fatalf("missing history must not fail the fetch: %v", err)
	}

	if snapshot.DividendIncreases12Y != 0 || snapshot.ConsecutiveDividendYears != 0 {
		t.Errorf("expected zero dividend metrics, got %d/%d",
			snapshot.DividendIncreases12Y, snapshot.ConsecutiveDividendYears)
	}
	if snapshot.HighYield != 0 || snapshot.LowYield != 0 {
		t.Errorf("expected zero yield range, got (%v, %v)", snapshot.HighYield, snapshot.LowYield)
	}
	if snapshot.EPS.Source != models.EPSSourceUnavailable {
		t.Errorf("expected unavailable EPS source, got %q", snapshot.EPS.Source)
	}
}
