// Package models defines data structures for Divvy
package models

import (
	"errors"
	"time"
)

// ErrTickerNotFound indicates a ticker is absent from the registry directory.
// This is an expected outcome — the directory only covers registry-tracked
// issuers — and callers must treat it as "no identifier", not a failure.
var ErrTickerNotFound = errors.New("ticker not found in registry directory")

// DividendPayment is a single dividend payment on a given date.
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DividendSeries is the full per-date dividend history for a ticker,
// chronological but not necessarily gap-free.
type DividendSeries []DividendPayment

// AnnualDividendTotals maps calendar year to the summed dividend amount
// paid in that year. Years with no payments are absent, not zero.
type AnnualDividendTotals map[int]float64

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds daily closes over a trailing window (5 years).
type PriceSeries []PricePoint

// StockSnapshot holds everything known about a ticker at analysis time.
// It is created once per analysis request and immutable after FetchSnapshot
// returns.
type StockSnapshot struct {
	Ticker               string  `json:"ticker"`
	Name                 string  `json:"name"`
	Currency             string  `json:"currency"`
	CurrentPrice         float64 `json:"current_price"`
	AnnualDividend       float64 `json:"annual_dividend"`
	SharesOutstandingM   float64 `json:"shares_outstanding_millions"`
	InstitutionalHolders int     `json:"institutional_holders"`

	// Raw inputs the derived metrics were computed from
	Dividends DividendSeries `json:"dividends,omitempty"`
	Prices    PriceSeries    `json:"prices,omitempty"`

	// Derived dividend metrics
	DividendIncreases12Y     int    `json:"dividend_increases_12y"`
	ConsecutiveDividendYears int    `json:"consecutive_dividend_years"`
	DividendStatus           string `json:"dividend_status"`

	// Historical yield range over the price window
	HighYield float64 `json:"historical_high_yield"`
	LowYield  float64 `json:"historical_low_yield"`

	// Resolved EPS growth
	EPS EPSResolution `json:"eps"`

	LastUpdated time.Time `json:"last_updated"`
}

// EPS resolution source labels, ordered by decreasing reliability.
const (
	EPSSourcePrimary     = "primary-provider"
	EPSSourceRegistry    = "registry-api"
	EPSSourceScrape      = "secondary-scrape"
	EPSSourceHeuristic   = "heuristic-estimate"
	EPSSourceUnavailable = "unavailable"
)

// EPSResolution is the outcome of the EPS fallback chain. Source is
// diagnostic only and never affects scoring.
type EPSResolution struct {
	Increases int    `json:"increases"`
	Source    string `json:"source"`
}

// EarningsRecord is an annual earnings figure exposed by the primary
// market-data provider. In practice providers return only a few recent
// periods, so this rarely satisfies the 12-year window on its own.
type EarningsRecord struct {
	FiscalYear int     `json:"fiscal_year"`
	EPS        float64 `json:"eps"`
}
