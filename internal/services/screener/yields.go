package screener

import "github.com/bobmcallan/divvy/internal/models"

// ComputeYieldRange derives the historical high/low dividend yield from a
// price series and the current annual dividend rate. An empty series or a
// zero dividend returns (0, 0) — downstream scoring treats a zero range
// as "no valuation signal", not as a literal zero-yield stock.
func ComputeYieldRange(prices models.PriceSeries, annualDividend float64) (highYield, lowYield float64) {
	if len(prices) == 0 || annualDividend == 0 {
		return 0.0, 0.0
	}

	first := true
	for _, p := range prices {
		if p.Close <= 0 {
			continue
		}
		y := annualDividend / p.Close * 100
		if first {
			highYield, lowYield = y, y
			first = false
			continue
		}
		if y > highYield {
			highYield = y
		}
		if y < lowYield {
			lowYield = y
		}
	}

	return highYield, lowYield
}
