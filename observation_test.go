package polyfit

import "testing"

func TestDirectObservationRow(t *testing.T) {
	o := NewDirectObservation(2, 7)
	row, rhs, err := o.Row(2)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	want := []float64{1, 2, 4}
	for i := range want {
		if !almostEqual(row[i], want[i], 1e-9) {
			t.Fatalf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
	if !almostEqual(rhs, 7, 1e-9) {
		t.Fatalf("rhs = %v, want 7", rhs)
	}
}

func TestDerivativeObservationRow(t *testing.T) {
	// P(x) = p0 + p1*x + p2*x^2 + p3*x^3, P'(x) = p1 + 2*p2*x + 3*p3*x^2
	o, err := NewDerivativeObservation(2, 5, 1)
	if err != nil {
		t.Fatalf("NewDerivativeObservation: %v", err)
	}
	row, _, err := o.Row(3)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	p := NewPolynomial([]float64{0, 1, 1, 1})
	got := row[0]*p.Coeffs[0] + row[1]*p.Coeffs[1] + row[2]*p.Coeffs[2] + row[3]*p.Coeffs[3]
	want := p.EvalDerivative(2, 1)
	if !almostEqual(got, want, 1e-9) {
		t.Fatalf("row dot p = %v, want %v", got, want)
	}
}

func TestIntegralObservationRow(t *testing.T) {
	// P(x) = 1 + x; its indefinite integral with constant 2 is
	// Q(x) = x + x^2/2 + 2. Pick y = Q(1) so the row/rhs pair is
	// consistent with P.
	p := NewPolynomial([]float64{1, 1})
	q, err := p.IndefiniteIntegral(1, []float64{2})
	if err != nil {
		t.Fatalf("IndefiniteIntegral: %v", err)
	}
	y := q.Eval(1)

	o, err := NewIntegralObservation(1, y, 1, []float64{2})
	if err != nil {
		t.Fatalf("NewIntegralObservation: %v", err)
	}
	row, rhs, err := o.Row(1)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	got := row[0]*p.Coeffs[0] + row[1]*p.Coeffs[1]
	if !almostEqual(got, rhs, 1e-9) {
		t.Fatalf("row dot p = %v, want rhs %v", got, rhs)
	}
}

func TestIntegralIntervalObservationZeroWidth(t *testing.T) {
	o, err := NewIntegralIntervalObservation(3, 3, 0, 1, nil)
	if err != nil {
		t.Fatalf("NewIntegralIntervalObservation: %v", err)
	}
	row, rhs, err := o.Row(2)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	for i, c := range row {
		if c != 0 {
			t.Fatalf("row[%d] = %v, want 0 for zero-width interval", i, c)
		}
	}
	if rhs != 0 {
		t.Fatalf("rhs = %v, want 0", rhs)
	}
}

func TestNewDerivativeObservationRejectsBadOrder(t *testing.T) {
	if _, err := NewDerivativeObservation(0, 0, 0); err == nil {
		t.Fatal("expected error for order 0")
	}
}

func TestObservationSetConstants(t *testing.T) {
	o, err := NewIntegralObservation(1, 1, 2, []float64{0, 0})
	if err != nil {
		t.Fatalf("NewIntegralObservation: %v", err)
	}
	if err := o.SetConstants([]float64{1, 2}); err != nil {
		t.Fatalf("SetConstants: %v", err)
	}
	constants, ok := o.Constants()
	if !ok || len(constants) != 2 || constants[0] != 1 || constants[1] != 2 {
		t.Fatalf("Constants() = %v, %v, want [1 2] true", constants, ok)
	}
	if err := o.SetConstants([]float64{1}); err == nil {
		t.Fatal("expected error for mismatched constants length")
	}
	if err := o.SetConstants(nil); err != nil {
		t.Fatalf("SetConstants(nil): %v", err)
	}
	if _, ok := o.Constants(); ok {
		t.Fatal("expected Constants() to report absent after SetConstants(nil)")
	}
}

func TestObservationKindString(t *testing.T) {
	cases := []struct {
		k    ObservationKind
		want string
	}{
		{Direct, "Direct"},
		{DerivativeKind, "Derivative"},
		{IntegralKind, "Integral"},
		{IntegralIntervalKind, "IntegralInterval"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", int(c.k), got, c.want)
		}
	}
}
