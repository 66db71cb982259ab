// Package aggregate buckets canonical ledger records into per-category
// monthly series sharing one contiguous month range.
package aggregate

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"LedgerCast/internal/model"
)

// Result holds the aggregated series for one run. Every series covers the
// same [Start, End] range; months a category has no transactions in are
// explicit zeros. Insufficient lists categories below the history
// threshold, which are passed through as actuals-only.
type Result struct {
	Series       []model.MonthlySeries
	Start, End   model.Month
	Insufficient []string
}

// Aggregate sums record amounts by (month, category) and expands every
// category to the shared overall month range. Categories with fewer than
// minHistory non-zero months are flagged insufficient. The shared range
// keeps all forecasts aligned on one historical window, so sparse
// categories are not biased by a shorter implicit history.
func Aggregate(records []model.CanonicalRecord, minHistory int) (*Result, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to aggregate")
	}

	buckets := make(map[string]map[model.Month]decimal.Decimal)
	start := records[0].Month()
	end := start
	for _, rec := range records {
		m := rec.Month()
		if m.Before(start) {
			start = m
		}
		if m.After(end) {
			end = m
		}
		cat := buckets[rec.Category]
		if cat == nil {
			cat = make(map[model.Month]decimal.Decimal)
			buckets[rec.Category] = cat
		}
		cat[m] = cat[m].Add(rec.Amount)
	}

	categories := make([]string, 0, len(buckets))
	for name := range buckets {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	months := model.MonthsBetween(start, end) + 1
	res := &Result{Start: start, End: end}
	for _, name := range categories {
		series := model.MonthlySeries{
			Category: name,
			Points:   make([]model.SeriesPoint, months),
		}
		m := start
		for i := 0; i < months; i++ {
			series.Points[i] = model.SeriesPoint{Month: m, Value: buckets[name][m]}
			m = m.Next()
		}
		res.Series = append(res.Series, series)
		if series.NonZeroMonths() < minHistory {
			res.Insufficient = append(res.Insufficient, name)
		}
	}
	return res, nil
}

// Truncate drops records falling in or after the cutoff month, so a
// partially elapsed month never leaks into the historical series.
func Truncate(records []model.CanonicalRecord, cutoff model.Month) []model.CanonicalRecord {
	kept := records[:0]
	for _, rec := range records {
		if rec.Month().Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	return kept
}
