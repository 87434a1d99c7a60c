package screener

import (
	"context"
	"strings"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
	"github.com/bobmcallan/divvy/internal/models"
)

// In-memory fakes for the service dependencies. Call counters let tests
// assert which stages of the EPS chain were attempted.

type fakeProvider struct {
	snapshot      *models.StockSnapshot
	snapshotErr   error
	dividends     models.DividendSeries
	dividendsErr  error
	prices        models.PriceSeries
	pricesErr     error
	earnings      []models.EarningsRecord
	earningsErr   error
	earningsCalls int
}

func (f *fakeProvider) GetSnapshot(_ context.Context, ticker string) (*models.StockSnapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &models.StockSnapshot{Ticker: strings.ToUpper(ticker), Currency: "USD"}, nil
}

func (f *fakeProvider) GetDividendHistory(_ context.Context, _ string) (models.DividendSeries, error) {
	return f.dividends, f.dividendsErr
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, _ string, _ int) (models.PriceSeries, error) {
	return f.prices, f.pricesErr
}

func (f *fakeProvider) GetEarningsHistory(_ context.Context, _ string) ([]models.EarningsRecord, error) {
	f.earningsCalls++
	return f.earnings, f.earningsErr
}

type fakeRegistry struct {
	directory      map[string]string
	directoryErr   error
	annualEPS      map[int]float64
	annualEPSErr   error
	directoryCalls int
	epsCalls       int
}

func (f *fakeRegistry) GetDirectory(_ context.Context) (map[string]string, error) {
	f.directoryCalls++
	return f.directory, f.directoryErr
}

func (f *fakeRegistry) GetAnnualEPS(_ context.Context, _ string) (map[int]float64, error) {
	f.epsCalls++
	return f.annualEPS, f.annualEPSErr
}

type fakeScraper struct {
	annualEPS    map[int]float64
	annualEPSErr error
	calls        int
}

func (f *fakeScraper) GetAnnualEPS(_ context.Context, _ string) (map[int]float64, error) {
	f.calls++
	return f.annualEPS, f.annualEPSErr
}

// memCache is an in-memory CacheStore with no TTL expiry.
type memCache struct {
	directory map[string]string
	snapshots map[string]*models.StockSnapshot
}

func newMemCache() *memCache {
	return &memCache{snapshots: map[string]*models.StockSnapshot{}}
}

func (c *memCache) Directory() interfaces.DirectoryCache { return (*memDirectory)(c) }
func (c *memCache) Snapshots() interfaces.SnapshotCache  { return (*memSnapshots)(c) }
func (c *memCache) Close() error                         { return nil }

type memDirectory memCache

func (c *memDirectory) GetDirectory(_ context.Context) (map[string]string, error) {
	return c.directory, nil
}

func (c *memDirectory) SaveDirectory(_ context.Context, directory map[string]string) error {
	c.directory = directory
	return nil
}

type memSnapshots memCache

func (c *memSnapshots) GetSnapshot(_ context.Context, ticker string) (*models.StockSnapshot, error) {
	return c.snapshots[strings.ToUpper(ticker)], nil
}

func (c *memSnapshots) SaveSnapshot(_ context.Context, snapshot *models.StockSnapshot) error {
	c.snapshots[strings.ToUpper(snapshot.Ticker)] = snapshot
	return nil
}

func newTestService(provider *fakeProvider, registry *fakeRegistry, scraper *fakeScraper) (*Service, *memCache) {
	cache := newMemCache()
	svc := NewService(cache, provider, registry, scraper, common.NewSilentLogger())
	return svc, cache
}
