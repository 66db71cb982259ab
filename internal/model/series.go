package model

import "github.com/shopspring/decimal"

// SeriesPoint is one month's aggregated value for a category.
type SeriesPoint struct {
	Month Month
	Value decimal.Decimal
}

// MonthlySeries is a contiguous, zero-filled per-category time series.
// Points are strictly increasing by month with no duplicates; months a
// category has no transactions in carry an explicit zero.
type MonthlySeries struct {
	Category string
	Points   []SeriesPoint
}

// Values returns the series values as float64s, in month order.
func (s MonthlySeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i], _ = p.Value.Float64()
	}
	return vals
}

// LastMonth returns the final historical month of the series.
// The second return is false for an empty series.
func (s MonthlySeries) LastMonth() (Month, bool) {
	if len(s.Points) == 0 {
		return Month{}, false
	}
	return s.Points[len(s.Points)-1].Month, true
}

// NonZeroMonths counts months with a non-zero aggregated value.
func (s MonthlySeries) NonZeroMonths() int {
	n := 0
	for _, p := range s.Points {
		if !p.Value.IsZero() {
			n++
		}
	}
	return n
}
