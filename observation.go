package polyfit

import "math"

// ObservationKind discriminates the Observation tagged variant.
type ObservationKind int

const (
	// Direct observation: P(x) = y.
	Direct ObservationKind = iota
	// DerivativeKind observation: P^(order)(x) = y.
	DerivativeKind
	// IntegralKind observation: the order-th indefinite integral of P,
	// with known integration constants, evaluates to y at x.
	IntegralKind
	// IntegralIntervalKind observation: the order-fold definite integral
	// of P over [startX, endX] equals y.
	IntegralIntervalKind
)

func (k ObservationKind) String() string {
	switch k {
	case Direct:
		return "Direct"
	case DerivativeKind:
		return "Derivative"
	case IntegralKind:
		return "Integral"
	case IntegralIntervalKind:
		return "IntegralInterval"
	default:
		return "Unknown"
	}
}

// Observation is a tagged-variant measurement of an unknown polynomial. It
// is constructed through the New*Observation factories below and exposes a
// single semantic operation, Row, which is a pure function of the
// variant's data and the declared system degree.
type Observation struct {
	kind ObservationKind

	x, y         float64
	startX, endX float64
	order        int
	constants    []float64
	hasConstants bool
}

// NewDirectObservation builds a Direct observation: P(x) = y.
func NewDirectObservation(x, y float64) Observation {
	return Observation{kind: Direct, x: x, y: y, order: 0}
}

// NewDerivativeObservation builds a Derivative observation of the given
// order: P^(order)(x) = y. order must be >= 1.
func NewDerivativeObservation(x, y float64, order int) (Observation, error) {
	if order < 1 {
		return Observation{}, newErr(InvalidConfiguration, "NewDerivativeObservation", "order must be >= 1, got %d", order)
	}
	return Observation{kind: DerivativeKind, x: x, y: y, order: order}, nil
}

// NewIntegralObservation builds an Integral observation: the order-th
// indefinite integral of P, with the given integration constants
// (lowest-order first, length == order, or nil for all-zero), evaluates to
// y at x.
func NewIntegralObservation(x, y float64, order int, constants []float64) (Observation, error) {
	if order < 1 {
		return Observation{}, newErr(InvalidConfiguration, "NewIntegralObservation", "order must be >= 1, got %d", order)
	}
	if constants != nil && len(constants) != order {
		return Observation{}, newErr(InvalidConfiguration, "NewIntegralObservation", "len(constants)=%d != order=%d", len(constants), order)
	}
	o := Observation{kind: IntegralKind, x: x, y: y, order: order}
	if constants != nil {
		o.constants = append([]float64(nil), constants...)
		o.hasConstants = true
	}
	return o, nil
}

// NewIntegralIntervalObservation builds an IntegralInterval observation:
// the order-fold definite integral of P over [startX, endX] equals y.
// constants are optional (nil means zero correction contribution).
func NewIntegralIntervalObservation(startX, endX, y float64, order int, constants []float64) (Observation, error) {
	if order < 1 {
		return Observation{}, newErr(InvalidConfiguration, "NewIntegralIntervalObservation", "order must be >= 1, got %d", order)
	}
	if constants != nil && len(constants) != order {
		return Observation{}, newErr(InvalidConfiguration, "NewIntegralIntervalObservation", "len(constants)=%d != order=%d", len(constants), order)
	}
	o := Observation{kind: IntegralIntervalKind, startX: startX, endX: endX, y: y, order: order}
	if constants != nil {
		o.constants = append([]float64(nil), constants...)
		o.hasConstants = true
	}
	return o, nil
}

// KindOf returns the variant tag. The tag is immutable after construction.
func (o Observation) KindOf() ObservationKind { return o.kind }

// X returns the evaluation point (Direct/Derivative/Integral variants).
func (o Observation) X() float64 { return o.x }

// Y returns the measured value.
func (o Observation) Y() float64 { return o.y }

// StartX/EndX return the interval bounds (IntegralInterval variant only).
func (o Observation) StartX() float64 { return o.startX }
func (o Observation) EndX() float64   { return o.endX }

// Order returns the derivative/integral order (0 for Direct).
func (o Observation) Order() int { return o.order }

// Constants returns the integration constants, if any were supplied.
func (o Observation) Constants() ([]float64, bool) {
	if !o.hasConstants {
		return nil, false
	}
	return append([]float64(nil), o.constants...), true
}

// SetX sets the evaluation point.
func (o *Observation) SetX(x float64) { o.x = x }

// SetY sets the measured value.
func (o *Observation) SetY(y float64) { o.y = y }

// SetInterval sets the interval bounds (IntegralInterval variant).
func (o *Observation) SetInterval(startX, endX float64) {
	o.startX, o.endX = startX, endX
}

// SetOrder sets the derivative/integral order. Fails with
// InvalidConfiguration if order < 1 for a variant that requires it.
func (o *Observation) SetOrder(order int) error {
	if o.kind != Direct && order < 1 {
		return newErr(InvalidConfiguration, "Observation.SetOrder", "order must be >= 1, got %d", order)
	}
	o.order = order
	return nil
}

// SetConstants sets the full integration-constants array (length must
// equal the observation's order, or pass nil to clear it).
func (o *Observation) SetConstants(constants []float64) error {
	if constants != nil && len(constants) != o.order {
		return newErr(InvalidConfiguration, "Observation.SetConstants", "len(constants)=%d != order=%d", len(constants), o.order)
	}
	if constants == nil {
		o.constants = nil
		o.hasConstants = false
		return nil
	}
	o.constants = append([]float64(nil), constants...)
	o.hasConstants = true
	return nil
}

// Validate checks the observation's shape invariants.
func (o Observation) Validate() error {
	if o.kind != Direct && o.order < 1 {
		return newErr(InvalidConfiguration, "Observation.Validate", "order must be >= 1 for kind %s, got %d", o.kind, o.order)
	}
	if o.hasConstants && len(o.constants) != o.order {
		return newErr(InvalidConfiguration, "Observation.Validate", "len(constants)=%d != order=%d", len(o.constants), o.order)
	}
	if math.IsNaN(o.y) || math.IsInf(o.y, 0) {
		return newErr(InvalidConfiguration, "Observation.Validate", "y is not finite")
	}
	return nil
}

// constantCorrection returns C(x) = the order-th indefinite integral of
// the zero polynomial, with integration constants `constants`. It is zero
// if constants is nil. This is the correction term subtracted into the
// right-hand side of Integral/IntegralInterval rows.
func constantCorrection(order int, constants []float64) (Polynomial, error) {
	zero := Polynomial{}
	return zero.IndefiniteIntegral(order, constants)
}

// factorialRatio returns j! / (j+k)!, computed as a running product to
// avoid overflow at small orders: 1 / ((j+1)*(j+2)*...*(j+k)).
func factorialRatio(j, k int) float64 {
	if k == 0 {
		return 1
	}
	v := 1.0
	for i := 1; i <= k; i++ {
		v /= float64(j + i)
	}
	return v
}

// Row returns this observation's contribution to the linear system for a
// polynomial of the given degree: the row of A (columns 0..degree) and the
// corresponding entry of b.
func (o Observation) Row(degree int) ([]float64, float64, error) {
	if degree < 1 {
		return nil, 0, newErr(InvalidConfiguration, "Observation.Row", "degree must be >= 1, got %d", degree)
	}
	if err := o.Validate(); err != nil {
		return nil, 0, err
	}

	row := make([]float64, degree+1)

	switch o.kind {
	case Direct:
		xp := 1.0
		for j := 0; j <= degree; j++ {
			row[j] = xp
			xp *= o.x
		}
		return row, o.y, nil

	case DerivativeKind:
		k := o.order
		for j := k; j <= degree; j++ {
			coeff := 1.0
			for f := j - k + 1; f <= j; f++ {
				coeff *= float64(f)
			}
			row[j] = coeff * math.Pow(o.x, float64(j-k))
		}
		return row, o.y, nil

	case IntegralKind:
		k := o.order
		for j := 0; j <= degree; j++ {
			row[j] = factorialRatio(j, k) * math.Pow(o.x, float64(j+k))
		}
		var correction float64
		if o.hasConstants {
			c, err := constantCorrection(k, o.constants)
			if err != nil {
				return nil, 0, err
			}
			correction = c.Eval(o.x)
		}
		return row, o.y - correction, nil

	case IntegralIntervalKind:
		k := o.order
		if o.startX == o.endX {
			return row, 0, nil
		}
		for j := 0; j <= degree; j++ {
			row[j] = factorialRatio(j, k) * (math.Pow(o.endX, float64(j+k)) - math.Pow(o.startX, float64(j+k)))
		}
		var correction float64
		if o.hasConstants {
			c, err := constantCorrection(k, o.constants)
			if err != nil {
				return nil, 0, err
			}
			correction = c.Eval(o.endX) - c.Eval(o.startX)
		}
		return row, o.y - correction, nil

	default:
		return nil, 0, newErr(InvalidConfiguration, "Observation.Row", "unknown observation kind %d", o.kind)
	}
}
