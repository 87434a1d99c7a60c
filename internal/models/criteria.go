package models

// RegionalCriteria is a named threshold set resolved from (currency, mode).
// Immutable once resolved.
type RegionalCriteria struct {
	DividendIncreasesMin    int      `json:"dividend_increases_min"`
	SharesOutstandingMinM   float64  `json:"shares_outstanding_min"` // millions
	InstitutionalHoldersMin int      `json:"institutional_holders_min"`
	EPSIncreasesMin         int      `json:"eps_increases_min"`
	ConsecutiveDividendMin  int      `json:"consecutive_dividend_min"`
	RequiredStatus          []string `json:"required_status"`
	Description             string   `json:"description"`
}
