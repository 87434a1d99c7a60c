package models

import "time"

// Recommendation labels produced by the valuation engine.
const (
	RecommendationBuy            = "BUY"
	RecommendationWatch          = "WATCH"
	RecommendationHold           = "HOLD"
	RecommendationSell           = "SELL"
	RecommendationDoesNotQualify = "DOES_NOT_QUALIFY"
)

// CriterionResult records a single evaluated criterion with the literal
// actual/required values for display. Informational criteria are recorded
// but never gate the outcome.
type CriterionResult struct {
	Name          string `json:"name"`
	Actual        string `json:"actual,omitempty"`
	Required      string `json:"required,omitempty"`
	Passed        bool   `json:"passed"`
	Informational bool   `json:"informational,omitempty"`
}

// AnalysisResult is the outcome of a quality/valuation analysis.
// Created fresh per analysis call; never mutated after construction.
// Invariant: QualityOK == false forces Recommendation to DOES_NOT_QUALIFY.
type AnalysisResult struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Mode   string `json:"mode"`

	QualityOK bool              `json:"quality_ok"`
	Passed    []CriterionResult `json:"passed_criteria"`
	Failed    []CriterionResult `json:"failed_criteria"`

	CurrentYield float64 `json:"current_yield"`
	BuyYield     float64 `json:"buy_yield"`
	WatchYield   float64 `json:"watch_yield"`
	SellYield    float64 `json:"sell_yield"`

	Recommendation string `json:"recommendation"`
	Zone           string `json:"zone"`

	// Diagnostic: where the EPS increase count came from
	EPSSource string `json:"eps_source"`

	Criteria   RegionalCriteria `json:"criteria"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}
