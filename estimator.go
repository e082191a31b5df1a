package polyfit

// EstimatorType discriminates the estimator variant, mirroring the
// source's PolynomialEstimatorType factory-selector enum.
type EstimatorType int

const (
	// LMSEType is the deterministic (exact/least-mean-squared-error) estimator.
	LMSEType EstimatorType = iota
	// WeightedType ranks observations by weight and uses the top-k.
	WeightedType
	// RANSACType rejects outliers via RANSAC.
	RANSACType
	// LMedSType rejects outliers via Least Median of Squares.
	LMedSType
	// PROSACType rejects outliers via progressive sampling with quality scores.
	PROSACType
	// PROMedSType combines PROSAC sampling with LMedS scoring.
	PROMedSType
)

func (t EstimatorType) String() string {
	switch t {
	case LMSEType:
		return "LMSE"
	case WeightedType:
		return "Weighted"
	case RANSACType:
		return "RANSAC"
	case LMedSType:
		return "LMedS"
	case PROSACType:
		return "PROSAC"
	case PROMedSType:
		return "PROMedS"
	default:
		return "Unknown"
	}
}

// Estimator is the common programmatic surface every variant exposes.
type Estimator interface {
	SetDegree(d int) error
	Degree() int
	SetEvaluations(observations []Observation) error
	Evaluations() []Observation
	SetListener(l Listener)
	MinNumberOfEvaluations() int
	IsReady() bool
	IsLocked() bool
	GetType() EstimatorType
	Estimate() (Polynomial, error)
}

// baseEstimator holds the configuration and lock state shared by every
// estimator variant: degree, observations, listener, and the
// Idle/Locked flag. Configuration mutators fail with Locked while an
// Estimate() call is in flight.
type baseEstimator struct {
	degree       int
	observations []Observation
	listener     Listener
	locked       bool
}

func (b *baseEstimator) SetDegree(d int) error {
	if b.locked {
		return newErr(Locked, "SetDegree", "estimator is locked")
	}
	if d < 1 {
		return newErr(InvalidConfiguration, "SetDegree", "degree must be >= 1, got %d", d)
	}
	b.degree = d
	return nil
}

func (b *baseEstimator) Degree() int { return b.degree }

func (b *baseEstimator) SetEvaluations(observations []Observation) error {
	if b.locked {
		return newErr(Locked, "SetEvaluations", "estimator is locked")
	}
	for i, o := range observations {
		if err := o.Validate(); err != nil {
			return newErr(InvalidConfiguration, "SetEvaluations", "observation %d: %w", i, err)
		}
	}
	b.observations = observations
	return nil
}

func (b *baseEstimator) Evaluations() []Observation { return b.observations }

func (b *baseEstimator) SetListener(l Listener) {
	// Setting the listener is configuration like any other setter, but
	// since it has no invariant to violate we permit it even if the
	// lock check elsewhere would otherwise apply; callers should still
	// avoid calling this while Estimate() is in flight.
	b.listener = l
}

func (b *baseEstimator) MinNumberOfEvaluations() int { return b.degree + 1 }

func (b *baseEstimator) IsLocked() bool { return b.locked }

// lock transitions Idle -> Locked, returning an error if already locked
// (re-entrant Estimate() call, e.g. from within a listener callback).
func (b *baseEstimator) lock() error {
	if b.locked {
		return newErr(Locked, "Estimate", "estimator is already locked")
	}
	b.locked = true
	return nil
}

func (b *baseEstimator) unlock() { b.locked = false }

// New constructs an estimator of the given type with the given degree.
// Strategy-specific configuration (threshold, confidence, ...) is applied
// afterward via the returned value's setters.
func New(t EstimatorType, degree int) (Estimator, error) {
	switch t {
	case LMSEType:
		return NewDeterministicEstimator(degree)
	case WeightedType:
		return NewWeightedEstimator(degree)
	case RANSACType:
		return NewRANSACEstimator(degree)
	case LMedSType:
		return NewLMedSEstimator(degree)
	case PROSACType:
		return NewPROSACEstimator(degree)
	case PROMedSType:
		return NewPROMedSEstimator(degree)
	default:
		return nil, newErr(InvalidConfiguration, "New", "unknown estimator type %v", t)
	}
}
