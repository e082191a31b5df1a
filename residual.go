package polyfit

import "math"

// geometricRootTol bounds the imaginary part below which a companion-matrix
// eigenvalue is accepted as a real stationary point of the
// point-to-curve distance.
const geometricRootTol = 1e-7

// AlgebraicResidual returns |predicted - measured| for the given candidate
// polynomial against an observation, where predicted is P(x), P^(k)(x),
// the indefinite-integral evaluation, or the interval-integral value,
// matching the observation's variant.
func AlgebraicResidual(candidate Polynomial, o Observation) (float64, error) {
	predicted, err := predictedValue(candidate, o)
	if err != nil {
		return 0, err
	}
	return math.Abs(predicted - o.Y()), nil
}

func predictedValue(candidate Polynomial, o Observation) (float64, error) {
	switch o.KindOf() {
	case Direct:
		return candidate.Eval(o.X()), nil
	case DerivativeKind:
		return candidate.EvalDerivative(o.X(), o.Order()), nil
	case IntegralKind:
		constants, _ := o.Constants()
		q, err := candidate.IndefiniteIntegral(o.Order(), constants)
		if err != nil {
			return 0, err
		}
		return q.Eval(o.X()), nil
	case IntegralIntervalKind:
		constants, _ := o.Constants()
		return candidate.DefiniteIntegral(o.Order(), o.StartX(), o.EndX(), constants)
	default:
		return 0, newErr(InvalidConfiguration, "AlgebraicResidual", "unknown observation kind %d", o.KindOf())
	}
}

// GeometricResidual returns the shortest Euclidean distance from the
// observation point (x, y) to the curve y = P(x), for Direct observations.
// It is the minimum of sqrt((t-x)^2 + (P(t)-y)^2) over the real roots t of
// (t - x) + (P(t) - y)*P'(t) = 0. Non-Direct observations fall back to the
// algebraic residual, as does the Direct case when no real root is found.
func GeometricResidual(candidate Polynomial, o Observation) (float64, error) {
	if o.KindOf() != Direct {
		return AlgebraicResidual(candidate, o)
	}

	x, y := o.X(), o.Y()
	pMinusY := candidate.Add(NewPolynomial([]float64{-y}))
	pPrime := candidate.Derivative(1)
	stationarity := NewPolynomial([]float64{-x, 1}).Add(pMinusY.Mul(pPrime))

	if stationarity.Degree() < 1 {
		return AlgebraicResidual(candidate, o)
	}

	roots, err := stationarity.RealRoots(geometricRootTol)
	if err != nil || len(roots) == 0 {
		return AlgebraicResidual(candidate, o)
	}

	best := math.Inf(1)
	for _, t := range roots {
		dx := t - x
		dy := candidate.Eval(t) - y
		d := math.Hypot(dx, dy)
		if d < best {
			best = d
		}
	}
	return best, nil
}

// Residual computes the residual for o against candidate using either the
// algebraic or geometric model, selected by useGeometric.
func Residual(candidate Polynomial, o Observation, useGeometric bool) (float64, error) {
	if useGeometric {
		return GeometricResidual(candidate, o)
	}
	return AlgebraicResidual(candidate, o)
}
