package forecast

import (
	"errors"
	"math"
)

// errSingular is returned when the normal equations cannot be solved; the
// caller treats the candidate model as failed and moves on.
var errSingular = errors.New("singular design matrix")

// solveLeastSquares returns b minimizing ||y - X*b|| via the normal
// equations with Gaussian elimination and partial pivoting. X is row-major,
// every row the same length.
func solveLeastSquares(X [][]float64, y []float64) ([]float64, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("least squares: dimension mismatch")
	}
	k := len(X[0])
	if k == 0 || len(X) < k {
		return nil, errors.New("least squares: underdetermined system")
	}

	// Build XtX and Xty.
	a := make([][]float64, k)
	b := make([]float64, k)
	for i := 0; i < k; i++ {
		a[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			var s float64
			for t := range X {
				s += X[t][i] * X[t][j]
			}
			a[i][j] = s
		}
		var s float64
		for t := range X {
			s += X[t][i] * y[t]
		}
		b[i] = s
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < k; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < k; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	// Back substitution.
	out := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < k; j++ {
			s -= a[i][j] * out[j]
		}
		out[i] = s / a[i][i]
	}
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errSingular
		}
	}
	return out, nil
}
