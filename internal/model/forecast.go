package model

import "time"

// ForecastPoint is one projected month with its two-sided confidence bounds.
// Lower <= Point <= Upper always holds.
type ForecastPoint struct {
	Month Month
	Point float64
	Lower float64
	Upper float64
}

// ForecastResult holds the projected horizon for one category. Horizon
// months are contiguous and strictly follow the last historical month.
type ForecastResult struct {
	Category string
	Model    string // e.g. "ARIMA(1,1,0)" or "trend+seasonal-naive"
	Points   []ForecastPoint
}

// CategoryStatus tags how far a category made it through the pipeline.
type CategoryStatus string

const (
	// StatusForecasted means the category has both actuals and a forecast.
	StatusForecasted CategoryStatus = "forecasted"
	// StatusActualsOnly means the category lacked enough history to fit.
	StatusActualsOnly CategoryStatus = "actuals-only"
	// StatusUnavailable means model fitting failed after the fallback.
	StatusUnavailable CategoryStatus = "forecast-unavailable"
)

// CategoryResult pairs a category's historical series with its forecast
// outcome. Forecast is nil unless Status is StatusForecasted.
type CategoryResult struct {
	Category string
	Status   CategoryStatus
	Reason   string // populated for StatusUnavailable
	Series   MonthlySeries
	Forecast *ForecastResult
}

// Diagnostics are the run-level counters reported alongside the result.
type Diagnostics struct {
	RowsSkipped         int
	InsufficientHistory []string
	ForecastUnavailable map[string]string // category -> reason
}

// ForecastSet is the terminal result of one pipeline run: one entry per
// category observed in the input. Immutable once produced.
type ForecastSet struct {
	RunID       string
	GeneratedAt time.Time
	Categories  map[string]*CategoryResult
	Diagnostics Diagnostics
}

// CategoryNames returns the category keys in unspecified order.
func (fs *ForecastSet) CategoryNames() []string {
	names := make([]string, 0, len(fs.Categories))
	for name := range fs.Categories {
		names = append(names, name)
	}
	return names
}
