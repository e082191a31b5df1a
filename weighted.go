package polyfit

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WeightedEstimator ranks observations by descending weight, keeps the
// top-k (k = min(len(observations), maxEvaluations)), row-scales the
// resulting system by w_i/w_max, and solves it in the least-squares sense.
type WeightedEstimator struct {
	baseEstimator
	weights        []float64
	maxEvaluations int // 0 means "all"
	sortWeights    bool
}

// NewWeightedEstimator builds a WeightedEstimator for the given degree.
// By default maxEvaluations is unset (all observations are used) and
// sortWeights is true.
func NewWeightedEstimator(degree int) (*WeightedEstimator, error) {
	e := &WeightedEstimator{sortWeights: true}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *WeightedEstimator) GetType() EstimatorType { return WeightedType }

// SetWeights sets the per-observation weights, parallel to the
// observations set via SetEvaluations. Weights must be non-negative. A
// length that differs from the current observations is accepted here;
// IsReady reports false until the two lengths agree.
func (e *WeightedEstimator) SetWeights(weights []float64) error {
	if e.locked {
		return newErr(Locked, "SetWeights", "estimator is locked")
	}
	for i, w := range weights {
		if w < 0 {
			return newErr(InvalidConfiguration, "SetWeights", "weight %d is negative: %g", i, w)
		}
	}
	e.weights = append([]float64(nil), weights...)
	return nil
}

func (e *WeightedEstimator) Weights() []float64 { return e.weights }

// SetMaxEvaluations caps how many of the highest-weighted observations are
// used. 0 means "use all".
func (e *WeightedEstimator) SetMaxEvaluations(max int) error {
	if e.locked {
		return newErr(Locked, "SetMaxEvaluations", "estimator is locked")
	}
	if max < 0 {
		return newErr(InvalidConfiguration, "SetMaxEvaluations", "maxEvaluations must be >= 0, got %d", max)
	}
	e.maxEvaluations = max
	return nil
}

func (e *WeightedEstimator) MaxEvaluations() int { return e.maxEvaluations }

// SetSortWeights controls whether observations are ranked by descending
// weight before truncation to maxEvaluations. Disabling it keeps the
// caller-supplied order (truncating the first k instead of the top-k).
func (e *WeightedEstimator) SetSortWeights(sortWeights bool) error {
	if e.locked {
		return newErr(Locked, "SetSortWeights", "estimator is locked")
	}
	e.sortWeights = sortWeights
	return nil
}

func (e *WeightedEstimator) SortWeights() bool { return e.sortWeights }

func (e *WeightedEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations() && len(e.weights) == len(e.observations)
}

func (e *WeightedEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations with matching weights, have %d observations and %d weights",
			e.MinNumberOfEvaluations(), len(e.observations), len(e.weights))
	}
	if err := e.lock(); err != nil {
		return Polynomial{}, err
	}
	defer e.unlock()

	if e.listener != nil {
		e.listener.OnEstimateStart(e)
	}

	poly, err := e.estimateLocked()

	if e.listener != nil {
		e.listener.OnEstimateEnd(e)
	}
	return poly, err
}

func (e *WeightedEstimator) estimateLocked() (Polynomial, error) {
	n := len(e.observations)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if e.sortWeights {
		sort.SliceStable(indices, func(i, j int) bool {
			return e.weights[indices[i]] > e.weights[indices[j]]
		})
	}

	k := n
	if e.maxEvaluations > 0 && e.maxEvaluations < n {
		k = e.maxEvaluations
	}
	if k < e.MinNumberOfEvaluations() {
		return Polynomial{}, newErr(NotReady, "Estimate", "top-%d weighted subset is smaller than min evaluations %d", k, e.MinNumberOfEvaluations())
	}
	indices = indices[:k]

	selectedWeights := make([]float64, k)
	for i, idx := range indices {
		selectedWeights[i] = e.weights[idx]
	}
	wMax := floats.Max(selectedWeights)
	if wMax <= 0 {
		return Polynomial{}, newErr(InvalidConfiguration, "Estimate", "maximum weight must be positive")
	}

	rows := make([][]float64, k)
	rhs := make([]float64, k)
	for i, idx := range indices {
		row, b, err := e.observations[idx].Row(e.degree)
		if err != nil {
			return Polynomial{}, newErr(InvalidConfiguration, "Estimate", "observation %d: %w", idx, err)
		}
		scale := selectedWeights[i] / wMax
		for j := range row {
			row[j] *= scale
		}
		rows[i] = row
		rhs[i] = b * scale
	}

	A, b := buildSystemFromRows(rows, rhs, e.degree)
	x, err := solveLeastSquares(A, b)
	if err != nil {
		return Polynomial{}, newErr(PolynomialEstimation, "Estimate", "%w", err)
	}
	return NewPolynomial(x.RawVector().Data), nil
}
