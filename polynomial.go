package polyfit

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Polynomial is an ordered sequence p = (p0, p1, ..., pd) of real
// coefficients representing P(x) = sum_i p_i * x^i. Degree is always
// len(Coeffs)-1, regardless of trailing zero coefficients: a caller that
// declares degree d owns that declaration, sparse or not.
type Polynomial struct {
	Coeffs []float64
}

// NewPolynomial builds a Polynomial owning a copy of coeffs (p0 first).
func NewPolynomial(coeffs []float64) Polynomial {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return Polynomial{Coeffs: c}
}

// Degree returns the declared degree (len(Coeffs)-1). A Polynomial with no
// coefficients has degree -1 (the zero polynomial of undeclared degree).
func (p Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// Eval returns P(x).
func (p Polynomial) Eval(x float64) float64 {
	// Horner's method.
	v := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = v*x + p.Coeffs[i]
	}
	return v
}

// Derivative returns the order-th derivative of p as a new Polynomial.
// order must be >= 1. A derivative of order exceeding the degree yields
// the zero polynomial (Coeffs == nil).
func (p Polynomial) Derivative(order int) Polynomial {
	if order <= 0 {
		return NewPolynomial(p.Coeffs)
	}
	cur := p.Coeffs
	for step := 0; step < order; step++ {
		if len(cur) <= 1 {
			return Polynomial{}
		}
		next := make([]float64, len(cur)-1)
		for i := 1; i < len(cur); i++ {
			next[i-1] = cur[i] * float64(i)
		}
		cur = next
	}
	return NewPolynomial(cur)
}

// EvalDerivative returns P^(order)(x).
func (p Polynomial) EvalDerivative(x float64, order int) float64 {
	if order <= 0 {
		return p.Eval(x)
	}
	return p.Derivative(order).Eval(x)
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	result := make([]float64, n)
	copy(result, p.Coeffs)
	for i, c := range q.Coeffs {
		result[i] += c
	}
	return Polynomial{Coeffs: result}
}

// Scale returns c * p.
func (p Polynomial) Scale(c float64) Polynomial {
	result := make([]float64, len(p.Coeffs))
	for i, coeff := range p.Coeffs {
		result[i] = coeff * c
	}
	return Polynomial{Coeffs: result}
}

// Sub returns p - q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	return p.Add(q.Scale(-1))
}

// Mul returns the product polynomial p * q.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	if len(p.Coeffs) == 0 || len(q.Coeffs) == 0 {
		return Polynomial{}
	}
	result := make([]float64, len(p.Coeffs)+len(q.Coeffs)-1)
	for i, a := range p.Coeffs {
		if a == 0 {
			continue
		}
		for j, b := range q.Coeffs {
			result[i+j] += a * b
		}
	}
	return Polynomial{Coeffs: result}
}

// integrateOnce returns the indefinite integral of q with integration
// constant c: result[0] = c, result[i+1] = q.Coeffs[i]/(i+1).
func integrateOnce(q Polynomial, c float64) Polynomial {
	result := make([]float64, len(q.Coeffs)+1)
	result[0] = c
	for i, coeff := range q.Coeffs {
		result[i+1] = coeff / float64(i+1)
	}
	return Polynomial{Coeffs: result}
}

// IndefiniteIntegral returns the order-th indefinite integral of p whose
// integration constants (lowest-order first) are constants. order must be
// >= 1; len(constants) must equal order, or constants may be nil (treated
// as all zero).
func (p Polynomial) IndefiniteIntegral(order int, constants []float64) (Polynomial, error) {
	if order < 1 {
		return Polynomial{}, newErr(InvalidConfiguration, "Polynomial.IndefiniteIntegral", "order must be >= 1, got %d", order)
	}
	if constants != nil && len(constants) != order {
		return Polynomial{}, newErr(InvalidConfiguration, "Polynomial.IndefiniteIntegral", "len(constants)=%d != order=%d", len(constants), order)
	}
	cur := p
	for step := 0; step < order; step++ {
		c := 0.0
		if constants != nil {
			c = constants[step]
		}
		cur = integrateOnce(cur, c)
	}
	return cur, nil
}

// DefiniteIntegral returns the order-th-fold definite integral of p over
// [startX, endX], taken as Q(endX) - Q(startX) where Q is the order-th
// indefinite integral with the given constants. For order 1 the single
// constant cancels across the interval; for higher orders the earlier
// constants become non-constant terms of Q and do affect the result.
func (p Polynomial) DefiniteIntegral(order int, startX, endX float64, constants []float64) (float64, error) {
	q, err := p.IndefiniteIntegral(order, constants)
	if err != nil {
		return 0, err
	}
	return q.Eval(endX) - q.Eval(startX), nil
}

// String renders p as a human-readable expression, highest power first.
func (p Polynomial) String() string {
	if len(p.Coeffs) == 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		c := p.Coeffs[i]
		if c == 0 && len(p.Coeffs) > 1 {
			continue
		}
		if !first {
			if c < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if c < 0 {
			b.WriteString("-")
		}
		mag := math.Abs(c)
		switch i {
		case 0:
			fmt.Fprintf(&b, "%g", mag)
		case 1:
			fmt.Fprintf(&b, "%g*x", mag)
		default:
			fmt.Fprintf(&b, "%g*x^%d", mag, i)
		}
		first = false
	}
	if first {
		return "0"
	}
	return b.String()
}

// Roots returns the complex roots of P(x) = 0, found as the eigenvalues of
// the polynomial's companion matrix. Requires degree >= 1 and a nonzero
// leading coefficient.
func (p Polynomial) Roots() ([]complex128, error) {
	d := p.Degree()
	if d < 1 {
		return nil, newErr(InvalidConfiguration, "Polynomial.Roots", "degree must be >= 1, got %d", d)
	}
	lead := p.Coeffs[d]
	if lead == 0 {
		return nil, newErr(PolynomialEstimation, "Polynomial.Roots", "leading coefficient is zero")
	}

	companion := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		companion.Set(i, d-1, -p.Coeffs[i]/lead)
	}
	for i := 1; i < d; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenRight); !ok {
		return nil, newErr(PolynomialEstimation, "Polynomial.Roots", "companion matrix eigendecomposition failed")
	}
	values := eig.Values(nil)
	roots := make([]complex128, len(values))
	copy(roots, values)
	return roots, nil
}

// RealRoots returns the real parts of roots whose imaginary part is within
// tol of zero.
func (p Polynomial) RealRoots(tol float64) ([]float64, error) {
	roots, err := p.Roots()
	if err != nil {
		return nil, err
	}
	var real []float64
	for _, r := range roots {
		if math.Abs(imag(r)) <= tol {
			real = append(real, realPart(r))
		}
	}
	return real, nil
}

func realPart(c complex128) float64 { return float64(real(c)) }
