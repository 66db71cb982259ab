package forecast

import (
	"errors"
	"math"
)

// fallbackModel is the simple model used when the ARIMA search fails or
// the series is too short for seasonal estimation: a least-squares linear
// trend plus, when two full cycles exist, seasonal-naive offsets.
type fallbackModel struct {
	intercept float64
	slope     float64
	seasonal  []float64 // nil when seasonality was not estimated
	sigma     float64
	n         int
}

func (f *fallbackModel) label() string {
	if f.seasonal != nil {
		return "trend+seasonal-naive"
	}
	return "linear-trend"
}

// fitFallback estimates the fallback model. It only fails on degenerate
// input (fewer than two observations).
func fitFallback(x []float64, season int) (*fallbackModel, error) {
	n := len(x)
	if n < 2 {
		return nil, errors.New("fallback model needs at least two observations")
	}

	// Closed-form simple regression of x on t.
	tMean := float64(n-1) / 2
	xMean := meanOf(x)
	var num, den float64
	for t, v := range x {
		dt := float64(t) - tMean
		num += dt * (v - xMean)
		den += dt * dt
	}
	slope := 0.0
	if den > 0 {
		slope = num / den
	}
	intercept := xMean - slope*tMean

	f := &fallbackModel{intercept: intercept, slope: slope, n: n}

	resid := make([]float64, n)
	for t, v := range x {
		resid[t] = v - (intercept + slope*float64(t))
	}

	if season > 1 && n >= 2*season {
		offsets := make([]float64, season)
		counts := make([]int, season)
		for t, r := range resid {
			offsets[t%season] += r
			counts[t%season]++
		}
		for k := range offsets {
			if counts[k] > 0 {
				offsets[k] /= float64(counts[k])
			}
		}
		f.seasonal = offsets
		for t := range resid {
			resid[t] -= offsets[t%season]
		}
	}

	var sse float64
	for _, r := range resid {
		sse += r * r
	}
	f.sigma = math.Sqrt(sse / float64(n))
	return f, nil
}

// forecast returns h point forecasts and their standard errors. The error
// grows with the square root of the step, so intervals never narrow with
// the horizon.
func (f *fallbackModel) forecast(h int) (points, se []float64) {
	points = make([]float64, h)
	se = make([]float64, h)
	for step := 0; step < h; step++ {
		t := f.n + step
		v := f.intercept + f.slope*float64(t)
		if f.seasonal != nil {
			v += f.seasonal[t%len(f.seasonal)]
		}
		points[step] = v
		se[step] = f.sigma * math.Sqrt(float64(step+1))
	}
	return points, se
}
