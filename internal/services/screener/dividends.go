// Package screener implements dividend quality screening and yield-band
// valuation: dividend history analytics, the EPS resolution chain, and
// the criteria scoring engine.
package screener

import (
	"sort"

	"github.com/bobmcallan/divvy/internal/models"
)

// WindowYears is the trailing window for increase counting, applied to
// both dividend and EPS series.
const WindowYears = 12

// Dividend streak status labels.
const (
	StatusKing       = "Dividend King"
	StatusAristocrat = "Dividend Aristocrat"
	StatusAchiever   = "Dividend Achiever"
	StatusContender  = "Dividend Contender"
	StatusNone       = "None"
)

// Annualize buckets dividend payments by the calendar year of the payment
// date. An empty series yields an empty mapping.
func Annualize(series models.DividendSeries) models.AnnualDividendTotals {
	totals := models.AnnualDividendTotals{}
	for _, payment := range series {
		totals[payment.Date.Year()] += payment.Amount
	}
	return totals
}

// CountIncreases counts year-over-year dividend increases within the
// window [referenceYear-windowYears, referenceYear). Only years that
// actually materialized in the totals are compared, in ascending order —
// a gap year is skipped, not treated as zero, so a rebound after a gap
// counts as an increase relative to the last paid year. That leniency is
// deliberate policy.
func CountIncreases(totals models.AnnualDividendTotals, windowYears, referenceYear int) int {
	var years []int
	for year := range totals {
		if year >= referenceYear-windowYears && year < referenceYear {
			years = append(years, year)
		}
	}
	sort.Ints(years)

	increases := 0
	for i := 1; i < len(years); i++ {
		if totals[years[i]] > totals[years[i-1]] {
			increases++
		}
	}
	return increases
}

// CountConsecutiveYears walks backward from referenceYear-1 while each
// year is present with a positive total, stopping at the first gap or
// zero. Zero dividend history yields 0.
func CountConsecutiveYears(totals models.AnnualDividendTotals, referenceYear int) int {
	consecutive := 0
	for year := referenceYear - 1; ; year-- {
		total, ok := totals[year]
		if !ok || total <= 0 {
			break
		}
		consecutive++
	}
	return consecutive
}

// ClassifyStatus maps a consecutive-payment-year streak to the industry
// label, evaluated highest-first with inclusive lower bounds.
func ClassifyStatus(consecutiveYears int) string {
	switch {
	case consecutiveYears >= 50:
		return StatusKing
	case consecutiveYears >= 25:
		return StatusAristocrat
	case consecutiveYears >= 10:
		return StatusAchiever
	case consecutiveYears >= 5:
		return StatusContender
	default:
		return StatusNone
	}
}

// countRecentIncreases applies the same adjacent-pair counter to an
// arbitrary year→value mapping, restricted to the most recent windowYears
// fiscal years present. Used by every EPS stage.
func countRecentIncreases(byYear map[int]float64, windowYears int) int {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	if len(years) > windowYears {
		years = years[:windowYears]
	}
	sort.Ints(years)

	increases := 0
	for i := 1; i < len(years); i++ {
		if byYear[years[i]] > byYear[years[i-1]] {
			increases++
		}
	}
	return increases
}
