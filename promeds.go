package polyfit

// PROMedSEstimator combines PROSAC's quality-ranked progressive sampling
// with LMedS's median-squared-residual scoring, so it shares PROSAC's
// faster convergence under informative quality scores while keeping
// LMedS's threshold-free robustness to highly contaminated data.
type PROMedSEstimator struct {
	robustBase
}

// NewPROMedSEstimator builds a PROMedSEstimator for the given degree, with
// the robust defaults documented on robustBase.
func NewPROMedSEstimator(degree int) (*PROMedSEstimator, error) {
	e := &PROMedSEstimator{robustBase: newRobustBase()}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *PROMedSEstimator) GetType() EstimatorType { return PROMedSType }

func (e *PROMedSEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations() &&
		len(e.qualityScores) == len(e.observations)
}

func (e *PROMedSEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations with matching quality scores, have %d observations and %d quality scores",
			e.MinNumberOfEvaluations(), len(e.observations), len(e.qualityScores))
	}
	if err := e.lock(); err != nil {
		return Polynomial{}, err
	}
	defer e.unlock()

	if e.listener != nil {
		e.listener.OnEstimateStart(e)
	}

	s := e.degree + 1
	order := qualityOrder(e.qualityScores)
	sample := func(it int) ([]int, error) {
		return drawProgressive(order, it, s, e.rng), nil
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
