package forecast

import "math"

// kpss5pct is the 5% critical value of the KPSS level-stationarity
// statistic. Below it the series is treated as stationary.
const kpss5pct = 0.463

// kpssLevelStationary runs a KPSS test for stationarity around a level.
// Series too short to judge are treated as stationary so they are not
// differenced into nothing.
func kpssLevelStationary(x []float64) bool {
	n := len(x)
	if n < 8 {
		return true
	}

	mean := meanOf(x)
	e := make([]float64, n)
	for i, v := range x {
		e[i] = v - mean
	}

	// Partial sums of residuals.
	s := make([]float64, n)
	var run float64
	for i, v := range e {
		run += v
		s[i] = run
	}

	// Long-run variance with a Bartlett window.
	lags := int(math.Floor(4 * math.Pow(float64(n)/100, 0.25)))
	var gamma0 float64
	for _, v := range e {
		gamma0 += v * v
	}
	gamma0 /= float64(n)
	lrv := gamma0
	for j := 1; j <= lags; j++ {
		var g float64
		for t := j; t < n; t++ {
			g += e[t] * e[t-j]
		}
		g /= float64(n)
		lrv += 2 * (1 - float64(j)/float64(lags+1)) * g
	}
	if lrv < 1e-12 {
		return true // no variance left to test
	}

	var eta float64
	for _, v := range s {
		eta += v * v
	}
	eta /= float64(n) * float64(n) * lrv
	return eta < kpss5pct
}

// difference returns x differenced at the given lag: out[t] = x[t+lag]-x[t].
func difference(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := range out {
		out[i] = x[i+lag] - x[i]
	}
	return out
}

// autocorrelation returns the sample autocorrelation of x at the given lag.
func autocorrelation(x []float64, lag int) float64 {
	n := len(x)
	if lag <= 0 || n <= lag {
		return 0
	}
	mean := meanOf(x)
	var num, den float64
	for t := 0; t < n; t++ {
		d := x[t] - mean
		den += d * d
		if t >= lag {
			num += d * (x[t-lag] - mean)
		}
	}
	if den < 1e-12 {
		return 0
	}
	return num / den
}

func meanOf(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
