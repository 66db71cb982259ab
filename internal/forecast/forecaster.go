// Package forecast fits a univariate model per monthly series and projects
// a fixed horizon forward with two-sided confidence bounds.
//
// The primary model is a seasonal-aware ARIMA chosen by a bounded order
// search minimizing AICc; a linear-trend-plus-seasonal-naive model is the
// fallback when the search fails, the series is too short, or the fitting
// time budget runs out.
package forecast

import (
	"context"
	"fmt"
	"log"
	"math"

	"LedgerCast/internal/model"
)

// Options controls model selection and the projected horizon.
type Options struct {
	Horizon         int     // months to project, default 6
	Confidence      float64 // two-sided interval level, default 0.95
	MaxDifferencing *int    // regular differencing cap, default 2; 0 disables
	SeasonalPeriod  int     // default 12
	MaxP            int     // AR order search bound, default 2
	MaxQ            int     // MA order search bound, default 2
}

func (o Options) withDefaults() Options {
	if o.Horizon <= 0 {
		o.Horizon = 6
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = 0.95
	}
	if o.MaxDifferencing == nil {
		d := 2
		o.MaxDifferencing = &d
	}
	if o.SeasonalPeriod <= 0 {
		o.SeasonalPeriod = 12
	}
	if o.MaxP <= 0 {
		o.MaxP = 2
	}
	if o.MaxQ <= 0 {
		o.MaxQ = 2
	}
	return o
}

// seasonalACFThreshold gates seasonal differencing: only series whose
// first difference correlates this strongly at the seasonal lag get it.
const seasonalACFThreshold = 0.4

// Forecast fits a model to the series and projects the configured horizon.
// The context bounds the order search: on cancellation or deadline the
// fallback model is used. An error is returned only when the fallback
// fails too; the caller marks that category forecast-unavailable.
func Forecast(ctx context.Context, series model.MonthlySeries, opts Options) (*model.ForecastResult, error) {
	opts = opts.withDefaults()
	vals := series.Values()
	last, ok := series.LastMonth()
	if !ok {
		return nil, fmt.Errorf("category %s: empty series", series.Category)
	}

	z := normalQuantile(opts.Confidence)
	h := opts.Horizon

	// A flat history forecasts itself exactly; no model will improve on it
	// and the interval stays at zero width.
	if isConstant(vals) {
		points := make([]model.ForecastPoint, h)
		m := last
		for i := range points {
			m = m.Next()
			points[i] = model.ForecastPoint{Month: m, Point: vals[0], Lower: vals[0], Upper: vals[0]}
		}
		return &model.ForecastResult{Category: series.Category, Model: "constant", Points: points}, nil
	}

	if fc := fitBestARIMA(ctx, vals, opts, z, h, last); fc != nil {
		fc.Category = series.Category
		return fc, nil
	}

	// Fallback path.
	fb, err := fitFallback(vals, opts.SeasonalPeriod)
	if err != nil {
		return nil, fmt.Errorf("category %s: fallback model: %w", series.Category, err)
	}
	pts, se := fb.forecast(h)
	points := make([]model.ForecastPoint, h)
	m := last
	for i := range points {
		m = m.Next()
		points[i] = model.ForecastPoint{
			Month: m,
			Point: pts[i],
			Lower: pts[i] - z*se[i],
			Upper: pts[i] + z*se[i],
		}
	}
	return &model.ForecastResult{Category: series.Category, Model: fb.label(), Points: points}, nil
}

// fitBestARIMA runs the bounded order search and, on success, returns the
// projected horizon. A nil return means "use the fallback".
func fitBestARIMA(ctx context.Context, vals []float64, opts Options, z float64, h int, last model.Month) *model.ForecastResult {
	n := len(vals)
	if n < 8 {
		return nil
	}

	// Decide differencing up front; the search covers only (p, q).
	season := opts.SeasonalPeriod
	sd := 0
	if season > 1 && n >= 2*season &&
		math.Abs(autocorrelation(difference(vals, 1), season)) > seasonalACFThreshold {
		sd = 1
	}

	// chain[i] is the series before the i-th differencing step; the last
	// entry is the working series the ARMA is fitted on.
	chain := [][]float64{vals}
	lags := []int{}
	working := vals
	if sd == 1 {
		working = difference(working, season)
		chain = append(chain, working)
		lags = append(lags, season)
	}
	d := 0
	for d < *opts.MaxDifferencing && !kpssLevelStationary(working) {
		working = difference(working, 1)
		chain = append(chain, working)
		lags = append(lags, 1)
		d++
	}
	if len(working) < 8 {
		return nil
	}

	var best *armaModel
	for p := 0; p <= opts.MaxP; p++ {
		for q := 0; q <= opts.MaxQ; q++ {
			if err := ctx.Err(); err != nil {
				log.Printf("[WARN] order search interrupted (%v), using fallback model", err)
				return nil
			}
			spec := armaSpec{p: p, d: d, q: q, sd: sd, season: season}
			m, err := fitARMA(working, spec)
			if err != nil {
				continue
			}
			if best == nil || m.aicc < best.aicc {
				best = m
			}
		}
	}
	if best == nil {
		return nil
	}

	// Point forecasts on the working scale, integrated back to levels.
	fc := best.forecast(h)
	for i := len(chain) - 2; i >= 0; i-- {
		fc = integrateForecast(chain[i], fc, lags[i])
	}

	psi := best.psiWeights(h)
	points := make([]model.ForecastPoint, h)
	m := last
	var cum float64
	for i := 0; i < h; i++ {
		m = m.Next()
		cum += psi[i] * psi[i]
		se := math.Sqrt(best.sigma2 * cum)
		if math.IsNaN(fc[i]) || math.IsInf(fc[i], 0) || math.IsNaN(se) || math.IsInf(se, 0) {
			log.Printf("[WARN] %s produced a non-finite forecast, using fallback model", best.spec.label())
			return nil
		}
		points[i] = model.ForecastPoint{Month: m, Point: fc[i], Lower: fc[i] - z*se, Upper: fc[i] + z*se}
	}
	return &model.ForecastResult{Model: best.spec.label(), Points: points}
}

// normalQuantile returns the two-sided z value for the given confidence
// level, e.g. 1.96 for 0.95.
func normalQuantile(confidence float64) float64 {
	return math.Sqrt2 * math.Erfinv(confidence)
}
