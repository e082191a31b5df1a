package polyfit

// RANSACEstimator rejects outliers by repeatedly fitting a minimal sample
// and keeping the candidate with the largest threshold-consistent inlier
// set, following the classic RANSAC scoring rule.
type RANSACEstimator struct {
	robustBase
}

// NewRANSACEstimator builds a RANSACEstimator for the given degree, with
// the robust defaults documented on robustBase.
func NewRANSACEstimator(degree int) (*RANSACEstimator, error) {
	e := &RANSACEstimator{robustBase: newRobustBase()}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *RANSACEstimator) GetType() EstimatorType { return RANSACType }

func (e *RANSACEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations() && e.threshold > 0
}

func (e *RANSACEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations and a threshold > 0, have %d observations and threshold %g",
			e.MinNumberOfEvaluations(), len(e.observations), e.threshold)
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

	poly, mask, err := runThresholdLoop(e.observations, e.degree, e.threshold, &e.robustBase, e, sample)
	if err == nil {
		e.inlierMask = mask
		poly, err = refine(e.observations, e.degree, mask, poly, e.refineResult)
	}

	if e.listener != nil {
		e.listener.OnEstimateEnd(e)
	}
	return poly, err
}
