package forecast

import (
	"errors"
	"fmt"
	"math"
)

// armaSpec identifies one candidate model in the order search. The
// differencing orders d (regular) and sd (seasonal, at lag season) are
// decided before the search; only p and q are searched.
type armaSpec struct {
	p, d, q int
	sd      int // seasonal differencing order, 0 or 1
	season  int
}

func (s armaSpec) label() string {
	if s.sd > 0 {
		return fmt.Sprintf("SARIMA(%d,%d,%d)(0,%d,0)[%d]", s.p, s.d, s.q, s.sd, s.season)
	}
	return fmt.Sprintf("ARIMA(%d,%d,%d)", s.p, s.d, s.q)
}

// armaModel is a fitted ARMA on the (possibly differenced) working series.
type armaModel struct {
	spec   armaSpec
	mu     float64 // mean of the working series (drift after differencing)
	phi    []float64
	theta  []float64
	resid  []float64 // aligned with x; warmup entries are zero
	x      []float64 // working series the model was fitted on
	sigma2 float64
	aicc   float64
}

var errTooShort = errors.New("series too short to fit")

// fitARMA estimates an ARMA(p,q) on x with the Hannan-Rissanen two-stage
// least-squares method: a long autoregression proxies the innovations,
// then the ARMA coefficients come from one regression on lagged values and
// lagged innovation estimates.
func fitARMA(x []float64, spec armaSpec) (*armaModel, error) {
	n := len(x)
	p, q := spec.p, spec.q
	params := p + q + 1 // + innovation variance
	if n < 3*(p+q)+8 || n < params+8 {
		return nil, errTooShort
	}

	mu := meanOf(x)
	dev := make([]float64, n)
	for i, v := range x {
		dev[i] = v - mu
	}

	var phi, theta []float64
	switch {
	case p == 0 && q == 0:
		// White noise around the mean.
	case q == 0:
		b, err := lagRegression(dev, p, nil, 0)
		if err != nil {
			return nil, err
		}
		phi = b[:p]
	default:
		// Stage 1: long AR to estimate the innovations.
		m := p + q
		if m < 4 {
			m = 4
		}
		if max := n / 4; m > max {
			m = max
		}
		if m < 1 || n-m < p+q+4 {
			return nil, errTooShort
		}
		arb, err := lagRegression(dev, m, nil, 0)
		if err != nil {
			return nil, err
		}
		ehat := make([]float64, n)
		for t := m; t < n; t++ {
			pred := 0.0
			for i := 0; i < m; i++ {
				pred += arb[i] * dev[t-1-i]
			}
			ehat[t] = dev[t] - pred
		}

		// Stage 2: regress on p value lags and q innovation lags.
		b, err := lagRegression(dev, p, ehat, q)
		if err != nil {
			return nil, err
		}
		phi = b[:p]
		theta = b[p : p+q]
	}

	if !stationaryAR(phi) {
		return nil, errors.New("explosive AR estimate")
	}
	if !stationaryAR(theta) { // same triangle conditions give invertibility
		return nil, errors.New("non-invertible MA estimate")
	}

	model := &armaModel{spec: spec, mu: mu, phi: phi, theta: theta, x: x}
	model.computeResiduals()

	warm := p
	if q > warm {
		warm = q
	}
	eff := n - warm
	if eff <= params+1 {
		return nil, errTooShort
	}
	var sse float64
	for t := warm; t < n; t++ {
		sse += model.resid[t] * model.resid[t]
	}
	model.sigma2 = sse / float64(eff)
	if model.sigma2 < 0 || math.IsNaN(model.sigma2) {
		return nil, errors.New("invalid innovation variance")
	}

	// Gaussian log-likelihood and small-sample-corrected AIC.
	sig := model.sigma2
	if sig < 1e-12 {
		sig = 1e-12
	}
	ll := -0.5 * float64(eff) * (math.Log(2*math.Pi*sig) + 1)
	k := float64(params)
	model.aicc = -2*ll + 2*k + (2*k*(k+1))/(float64(eff)-k-1)
	return model, nil
}

// lagRegression regresses dev[t] on its first p lags and, when q > 0, the
// first q lags of eh. Rows start where every regressor is defined.
func lagRegression(dev []float64, p int, eh []float64, q int) ([]float64, error) {
	n := len(dev)
	start := p
	if q > start {
		start = q
	}
	// When innovation estimates exist only from some index on, begin there.
	if q > 0 {
		first := 0
		for first < len(eh) && eh[first] == 0 {
			first++
		}
		if first+q > start {
			start = first + q
		}
	}
	if n-start < p+q+2 {
		return nil, errTooShort
	}

	rows := make([][]float64, 0, n-start)
	y := make([]float64, 0, n-start)
	for t := start; t < n; t++ {
		row := make([]float64, 0, p+q)
		for i := 1; i <= p; i++ {
			row = append(row, dev[t-i])
		}
		for j := 1; j <= q; j++ {
			row = append(row, eh[t-j])
		}
		rows = append(rows, row)
		y = append(y, dev[t])
	}
	return solveLeastSquares(rows, y)
}

// stationaryAR checks the roots-outside-unit-circle condition for orders
// up to 2, where the triangle inequalities are exact.
func stationaryAR(phi []float64) bool {
	switch len(phi) {
	case 0:
		return true
	case 1:
		return math.Abs(phi[0]) < 0.999
	case 2:
		p1, p2 := phi[0], phi[1]
		return p2+p1 < 0.999 && p2-p1 < 0.999 && math.Abs(p2) < 0.999
	default:
		var s float64
		for _, v := range phi {
			s += math.Abs(v)
		}
		return s < 1
	}
}

// computeResiduals runs the one-step-ahead recursion over the fitted
// series. Warmup entries stay zero.
func (m *armaModel) computeResiduals() {
	n := len(m.x)
	e := make([]float64, n)
	for t := 0; t < n; t++ {
		pred := m.mu
		for i, phi := range m.phi {
			if t-1-i >= 0 {
				pred += phi * (m.x[t-1-i] - m.mu)
			}
		}
		for j, th := range m.theta {
			if t-1-j >= 0 {
				pred += th * e[t-1-j]
			}
		}
		e[t] = m.x[t] - pred
	}
	m.resid = e
}

// forecast produces h recursive point forecasts on the working-series
// scale. Future innovations are zero; known residuals feed the MA terms.
func (m *armaModel) forecast(h int) []float64 {
	n := len(m.x)
	ext := make([]float64, n, n+h)
	copy(ext, m.x)
	out := make([]float64, h)
	for step := 0; step < h; step++ {
		t := n + step
		v := m.mu
		for i, phi := range m.phi {
			v += phi * (ext[t-1-i] - m.mu)
		}
		for j, th := range m.theta {
			if idx := t - 1 - j; idx < n {
				v += th * m.resid[idx]
			}
		}
		ext = append(ext, v)
		out[step] = v
	}
	return out
}

// psiWeights returns the first h MA(infinity) weights of the full ARIMA
// process, differencing included, for the forecast-variance recursion.
func (m *armaModel) psiWeights(h int) []float64 {
	// Expand phi(B) * (1-B)^d * (1-B^s)^sd into 1 - sum a_k B^k.
	poly := []float64{1}
	phiPoly := make([]float64, len(m.phi)+1)
	phiPoly[0] = 1
	for i, v := range m.phi {
		phiPoly[i+1] = -v
	}
	poly = polyMul(poly, phiPoly)
	for i := 0; i < m.spec.d; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	for i := 0; i < m.spec.sd; i++ {
		seas := make([]float64, m.spec.season+1)
		seas[0] = 1
		seas[m.spec.season] = -1
		poly = polyMul(poly, seas)
	}
	a := make([]float64, len(poly)-1)
	for k := 1; k < len(poly); k++ {
		a[k-1] = -poly[k]
	}

	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		var v float64
		if j <= len(m.theta) {
			v = m.theta[j-1]
		}
		for k := 1; k <= j && k <= len(a); k++ {
			v += a[k-1] * psi[j-k]
		}
		psi[j] = v
	}
	return psi
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// integrateForecast undoes one differencing step: given the history at the
// coarser level and forecast increments, it rebuilds level forecasts.
func integrateForecast(history []float64, increments []float64, lag int) []float64 {
	n := len(history)
	out := make([]float64, len(increments))
	for h, inc := range increments {
		idx := n + h - lag
		var prev float64
		if idx < n {
			prev = history[idx]
		} else {
			prev = out[idx-n]
		}
		out[h] = inc + prev
	}
	return out
}
