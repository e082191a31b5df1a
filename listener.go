package polyfit

// Listener receives synchronous callbacks around an estimator's Estimate()
// call. Callbacks run on the caller's goroutine; they must not mutate the
// estimator. The estimator is locked for the full duration the listener can
// observe it, so every setter that returns an error fails with Locked;
// SetListener, SetRobustListener, SetGeometricDistanceUsed and
// SetRefineResult return no error and do not check the lock.
type Listener interface {
	OnEstimateStart(e Estimator)
	OnEstimateEnd(e Estimator)
}

// RobustListener extends Listener with the progress callbacks robust
// estimators additionally emit.
type RobustListener interface {
	Listener
	// OnIteration fires once per loop iteration, after scoring.
	OnIteration(e RobustEstimator, iteration int)
	// OnProgress fires on the first iteration and afterwards only when
	// progress crosses a multiple of the configured progress_delta.
	OnProgress(e RobustEstimator, progress float64)
}
