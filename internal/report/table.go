// Package report renders a ForecastSet for downstream consumers: a flat
// tabular form, CSV and Excel writers, and a plain-text run summary.
package report

import (
	"sort"

	"LedgerCast/internal/model"
)

// Row is one line of the tabular output contract.
type Row struct {
	Category   string
	Month      model.Month
	Value      float64 // actual when IsForecast is false, point estimate otherwise
	IsForecast bool
	Lower      float64 // meaningful only for forecast rows
	Upper      float64
	Status     model.CategoryStatus
	Model      string
}

// Flatten converts a ForecastSet into rows ordered by category then month,
// actuals before forecasts.
func Flatten(set *model.ForecastSet) []Row {
	names := set.CategoryNames()
	sort.Strings(names)

	var rows []Row
	for _, name := range names {
		res := set.Categories[name]
		modelLabel := ""
		if res.Forecast != nil {
			modelLabel = res.Forecast.Model
		}
		for _, p := range res.Series.Points {
			v, _ := p.Value.Float64()
			rows = append(rows, Row{
				Category: name,
				Month:    p.Month,
				Value:    v,
				Status:   res.Status,
				Model:    modelLabel,
			})
		}
		if res.Forecast == nil {
			continue
		}
		for _, p := range res.Forecast.Points {
			rows = append(rows, Row{
				Category:   name,
				Month:      p.Month,
				Value:      p.Point,
				IsForecast: true,
				Lower:      p.Lower,
				Upper:      p.Upper,
				Status:     res.Status,
				Model:      modelLabel,
			})
		}
	}
	return rows
}
