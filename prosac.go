package polyfit

// PROSACEstimator is RANSAC with progressive sampling: observations are
// ranked by a caller-supplied quality score and minimal samples are drawn
// preferentially from the highest-quality prefix, which tends to reach a
// consistent inlier set in far fewer iterations than uniform sampling when
// the quality scores correlate with inlier membership.
type PROSACEstimator struct {
	robustBase
}

// NewPROSACEstimator builds a PROSACEstimator for the given degree, with
// the robust defaults documented on robustBase.
func NewPROSACEstimator(degree int) (*PROSACEstimator, error) {
	e := &PROSACEstimator{robustBase: newRobustBase()}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *PROSACEstimator) GetType() EstimatorType { return PROSACType }

func (e *PROSACEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations() &&
		e.threshold > 0 &&
		len(e.qualityScores) == len(e.observations)
}

func (e *PROSACEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations with matching quality scores and a threshold > 0, have %d observations and %d quality scores",
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
