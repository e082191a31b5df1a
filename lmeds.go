package polyfit

// LMedSEstimator rejects outliers by repeatedly fitting a minimal sample
// and keeping the candidate with the smallest median squared residual,
// then derives an inlier set from the robust standard-deviation estimate
// sigma_hat = 1.4826*(1+5/(n-s))*sqrt(median). An optional stop_threshold
// lets the loop exit early once sqrt(best median) falls below it.
type LMedSEstimator struct {
	robustBase
}

// NewLMedSEstimator builds an LMedSEstimator for the given degree, with
// the robust defaults documented on robustBase.
func NewLMedSEstimator(degree int) (*LMedSEstimator, error) {
	e := &LMedSEstimator{robustBase: newRobustBase()}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *LMedSEstimator) GetType() EstimatorType { return LMedSType }

func (e *LMedSEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations()
}

func (e *LMedSEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations, have %d", e.MinNumberOfEvaluations(), len(e.observations))
	}
	if err := e.lock(); err != nil {
		return Polynomial{}, err
	}
	defer e.unlock()

	if e.listener != nil {
		e.listener.OnEstimateStart(e)
	}

	s := e.degree + 1
	n := len(e.observations)
	sample := func(it int) ([]int, error) {
		return drawUniform(n, s, e.rng), nil
	}

	poly, mask, err := runMedianLoop(e.observations, e.degree, &e.robustBase, e, sample)
	if err == nil {
		e.inlierMask = mask
		poly, err = refine(e.observations, e.degree, mask, poly, e.refineResult)
	}

	if e.listener != nil {
		e.listener.OnEstimateEnd(e)
	}
	return poly, err
}
