package polyfit

import "gonum.org/v1/gonum/mat"

// BuildSystem translates observations into a coefficient matrix A (one row
// per observation, columns 0..degree) and right-hand-side vector b, for a
// polynomial of the given degree. Row i is determined solely by
// observations[i] and degree; row order matches observation order.
func BuildSystem(observations []Observation, degree int) (*mat.Dense, *mat.VecDense, error) {
	if len(observations) == 0 {
		return nil, nil, newErr(InvalidConfiguration, "BuildSystem", "observations must be non-empty")
	}
	if degree < 1 {
		return nil, nil, newErr(InvalidConfiguration, "BuildSystem", "degree must be >= 1, got %d", degree)
	}

	n := len(observations)
	aData := make([]float64, n*(degree+1))
	bData := make([]float64, n)

	for i, obs := range observations {
		row, rhs, err := obs.Row(degree)
		if err != nil {
			return nil, nil, newErr(InvalidConfiguration, "BuildSystem", "observation %d: %w", i, err)
		}
		copy(aData[i*(degree+1):(i+1)*(degree+1)], row)
		bData[i] = rhs
	}

	A := mat.NewDense(n, degree+1, aData)
	b := mat.NewVecDense(n, bData)
	return A, b, nil
}

// buildSystemFromRows builds A/b directly from precomputed rows, used by
// the weighted estimator after row-scaling.
func buildSystemFromRows(rows [][]float64, rhs []float64, degree int) (*mat.Dense, *mat.VecDense) {
	n := len(rows)
	aData := make([]float64, n*(degree+1))
	for i, row := range rows {
		copy(aData[i*(degree+1):(i+1)*(degree+1)], row)
	}
	return mat.NewDense(n, degree+1, aData), mat.NewVecDense(n, rhs)
}
