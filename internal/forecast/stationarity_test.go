package forecast

import (
	"math"
	"testing"
)

func TestDifference(t *testing.T) {
	x := []float64{1, 3, 6, 10}
	got := difference(x, 1)
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if difference([]float64{1, 2}, 5) != nil {
		t.Error("expected nil when lag exceeds length")
	}
}

func TestDifferenceSeasonal(t *testing.T) {
	x := []float64{10, 20, 11, 21, 12, 22}
	got := difference(x, 2)
	for i, v := range got {
		if v != 1 {
			t.Errorf("index %d: expected 1, got %v", i, v)
		}
	}
}

func TestKPSS_StationarySeries(t *testing.T) {
	// A zero-mean periodic series has no trend; KPSS must accept it.
	pattern := []float64{1, -1, 0}
	x := make([]float64, 39)
	for i := range x {
		x[i] = pattern[i%3]
	}
	if !kpssLevelStationary(x) {
		t.Error("zero-mean periodic series should be level-stationary")
	}
}

func TestKPSS_TrendingSeries(t *testing.T) {
	x := make([]float64, 40)
	for i := range x {
		x[i] = float64(i)
	}
	if kpssLevelStationary(x) {
		t.Error("linear ramp should not be level-stationary")
	}
}

func TestKPSS_ShortSeries(t *testing.T) {
	if !kpssLevelStationary([]float64{1, 5, 2}) {
		t.Error("series too short to judge should pass")
	}
}

func TestAutocorrelation(t *testing.T) {
	// Perfect period-2 alternation correlates fully at lag 2 and inversely at lag 1.
	x := []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	if r := autocorrelation(x, 2); r < 0.7 {
		t.Errorf("expected strong lag-2 autocorrelation, got %.3f", r)
	}
	if r := autocorrelation(x, 1); r > -0.7 {
		t.Errorf("expected strong negative lag-1 autocorrelation, got %.3f", r)
	}
	if r := autocorrelation(x, 0); r != 0 {
		t.Errorf("lag 0 is undefined here and should return 0, got %.3f", r)
	}
}

func TestSolveLeastSquares_ExactLine(t *testing.T) {
	// y = 2 + 3x
	X := [][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}}
	y := []float64{2, 5, 8, 11}
	b, err := solveLeastSquares(X, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(b[0]-2) > 1e-9 || math.Abs(b[1]-3) > 1e-9 {
		t.Errorf("expected [2 3], got %v", b)
	}
}

func TestSolveLeastSquares_Singular(t *testing.T) {
	// Duplicate columns cannot be solved.
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	y := []float64{1, 2, 3}
	if _, err := solveLeastSquares(X, y); err == nil {
		t.Error("expected singular matrix error")
	}
}

func TestStationaryARConditions(t *testing.T) {
	tests := []struct {
		phi  []float64
		want bool
	}{
		{nil, true},
		{[]float64{0.5}, true},
		{[]float64{1.1}, false},
		{[]float64{0.5, 0.3}, true},
		{[]float64{0.8, 0.5}, false}, // p1+p2 >= 1
		{[]float64{-0.5, -0.4}, true},
	}
	for _, tt := range tests {
		if got := stationaryAR(tt.phi); got != tt.want {
			t.Errorf("phi=%v: expected %v, got %v", tt.phi, tt.want, got)
		}
	}
}

func TestFitARMA_RejectsShortSeries(t *testing.T) {
	// ARMA(2,2) wants at least 3*(p+q)+8 = 20 observations; 14 is not enough
	// even though it would clear the parameter-count floor.
	x := make([]float64, 14)
	for i := range x {
		x[i] = float64(i%5) + 0.3*float64(i)
	}
	if _, err := fitARMA(x, armaSpec{p: 2, q: 2, season: 12}); err == nil {
		t.Error("expected error fitting ARMA(2,2) on 14 observations")
	}
}

func TestPsiWeights_RandomWalk(t *testing.T) {
	// ARIMA(0,1,0): every psi weight is one, so variance grows linearly.
	m := &armaModel{spec: armaSpec{d: 1, season: 12}}
	psi := m.psiWeights(5)
	for i, v := range psi {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("psi[%d]: expected 1, got %v", i, v)
		}
	}
}

func TestPsiWeights_AR1(t *testing.T) {
	// ARMA(1,0) with phi=0.5: psi[j] = 0.5^j.
	m := &armaModel{spec: armaSpec{p: 1, season: 12}, phi: []float64{0.5}}
	psi := m.psiWeights(4)
	want := []float64{1, 0.5, 0.25, 0.125}
	for i := range want {
		if math.Abs(psi[i]-want[i]) > 1e-12 {
			t.Errorf("psi[%d]: expected %v, got %v", i, want[i], psi[i])
		}
	}
}
