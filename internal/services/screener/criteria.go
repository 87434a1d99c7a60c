package screener

import "github.com/bobmcallan/divvy/internal/models"

// Screening modes.
const (
	ModeBalanced   = "Balanced"
	ModeAggressive = "Aggressive"
)

// Floors for Aggressive-mode relaxation. Count thresholds never relax
// below these values regardless of the regional base.
const (
	floorCountThreshold       = 3
	floorConsecutiveThreshold = 5
)

// regionalCriteria holds the base Balanced threshold sets keyed by
// currency. Institutional holder minimums are low because the primary
// provider only returns the top ten holders.
var regionalCriteria = map[string]models.RegionalCriteria{
	"USD": {
		DividendIncreasesMin:    5,
		SharesOutstandingMinM:   5.0,
		InstitutionalHoldersMin: 5,
		EPSIncreasesMin:         4,
		ConsecutiveDividendMin:  10,
		RequiredStatus:          []string{},
		Description:             "Practical criteria for US dividend stocks",
	},
	"GBP": {
		DividendIncreasesMin:    5,
		SharesOutstandingMinM:   50.0,
		InstitutionalHoldersMin: 5,
		EPSIncreasesMin:         4,
		ConsecutiveDividendMin:  10,
		RequiredStatus:          []string{},
		Description:             "Practical criteria for UK dividend stocks",
	},
	"CAD": {
		DividendIncreasesMin:    5,
		SharesOutstandingMinM:   10.0,
		InstitutionalHoldersMin: 5,
		EPSIncreasesMin:         4,
		ConsecutiveDividendMin:  10,
		RequiredStatus:          []string{},
		Description:             "Practical criteria for Canadian dividend stocks",
	},
}

// ResolveCriteria returns the threshold set for a (currency, mode) pair.
// Unknown currencies fall back to the USD set; the function never fails.
// Aggressive mode relaxes count thresholds by 2 (consecutive years by 5),
// floored, and scales the shares-outstanding threshold by 0.4.
func ResolveCriteria(currency, mode string) models.RegionalCriteria {
	base, ok := regionalCriteria[currency]
	if !ok {
		base = regionalCriteria["USD"]
	}

	if mode != ModeAggressive {
		return base
	}

	return models.RegionalCriteria{
		DividendIncreasesMin:    relaxCount(base.DividendIncreasesMin, 2, floorCountThreshold),
		SharesOutstandingMinM:   base.SharesOutstandingMinM * 0.4,
		InstitutionalHoldersMin: relaxCount(base.InstitutionalHoldersMin, 2, floorCountThreshold),
		EPSIncreasesMin:         relaxCount(base.EPSIncreasesMin, 2, floorCountThreshold),
		ConsecutiveDividendMin:  relaxCount(base.ConsecutiveDividendMin, 5, floorConsecutiveThreshold),
		RequiredStatus:          []string{},
		Description:             base.Description + " (Aggressive)",
	}
}

func relaxCount(value, offset, floor int) int {
	if v := value - offset; v > floor {
		return v
	}
	return floor
}
