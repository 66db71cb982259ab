package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"LedgerCast/internal/model"
)

var csvHeader = []string{"category", "month", "value", "is_forecast", "lower_bound", "upper_bound", "status"}

// WriteCSV writes the flattened result set in the tabular output contract.
func WriteCSV(w io.Writer, set *model.ForecastSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Flatten(set) {
		lower, upper := "", ""
		if row.IsForecast {
			lower = formatValue(row.Lower)
			upper = formatValue(row.Upper)
		}
		rec := []string{
			row.Category,
			row.Month.String(),
			formatValue(row.Value),
			strconv.FormatBool(row.IsForecast),
			lower,
			upper,
			string(row.Status),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
