package polyfit

import "testing"

func TestSerializeRoundTripDirect(t *testing.T) {
	o := NewDirectObservation(1.5, -2.25)
	data, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	got, err := DeserializeObservation(data)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	if got.KindOf() != Direct || got.X() != o.X() || got.Y() != o.Y() {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, o)
	}
}

func TestSerializeRoundTripDerivative(t *testing.T) {
	o, err := NewDerivativeObservation(3, 4, 2)
	if err != nil {
		t.Fatalf("NewDerivativeObservation: %v", err)
	}
	data, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	got, err := DeserializeObservation(data)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	if got.KindOf() != DerivativeKind || got.X() != o.X() || got.Y() != o.Y() || got.Order() != o.Order() {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, o)
	}
}

func TestSerializeRoundTripIntegralWithConstants(t *testing.T) {
	o, err := NewIntegralObservation(2, 9, 2, []float64{1, -1})
	if err != nil {
		t.Fatalf("NewIntegralObservation: %v", err)
	}
	data, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	got, err := DeserializeObservation(data)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	wantConstants, _ := o.Constants()
	gotConstants, ok := got.Constants()
	if !ok || len(gotConstants) != len(wantConstants) {
		t.Fatalf("constants mismatch: got %v, want %v", gotConstants, wantConstants)
	}
	for i := range wantConstants {
		if gotConstants[i] != wantConstants[i] {
			t.Errorf("constants[%d] = %v, want %v", i, gotConstants[i], wantConstants[i])
		}
	}
}

func TestSerializeRoundTripIntegralNoConstants(t *testing.T) {
	o, err := NewIntegralObservation(2, 9, 1, nil)
	if err != nil {
		t.Fatalf("NewIntegralObservation: %v", err)
	}
	data, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	got, err := DeserializeObservation(data)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	if _, ok := got.Constants(); ok {
		t.Fatal("expected no constants after round trip")
	}
}

func TestSerializeRoundTripIntegralInterval(t *testing.T) {
	o, err := NewIntegralIntervalObservation(0, 4, 16, 1, []float64{2})
	if err != nil {
		t.Fatalf("NewIntegralIntervalObservation: %v", err)
	}
	data, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	got, err := DeserializeObservation(data)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	if got.KindOf() != IntegralIntervalKind || got.StartX() != o.StartX() || got.EndX() != o.EndX() || got.Y() != o.Y() {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, o)
	}
}

func TestSerializePolynomialRoundTrip(t *testing.T) {
	p := NewPolynomial([]float64{1, -2, 3.5, 0})
	data := SerializePolynomial(p)
	got, err := DeserializePolynomial(data)
	if err != nil {
		t.Fatalf("DeserializePolynomial: %v", err)
	}
	if len(got.Coeffs) != len(p.Coeffs) {
		t.Fatalf("coeff count = %d, want %d", len(got.Coeffs), len(p.Coeffs))
	}
	for i := range p.Coeffs {
		if got.Coeffs[i] != p.Coeffs[i] {
			t.Errorf("Coeffs[%d] = %v, want %v", i, got.Coeffs[i], p.Coeffs[i])
		}
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	o := NewDirectObservation(1, 2)
	a, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	b, err := SerializeObservation(o)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("serialize(x) should be deterministic")
	}

	roundTripped, err := DeserializeObservation(a)
	if err != nil {
		t.Fatalf("DeserializeObservation: %v", err)
	}
	c, err := SerializeObservation(roundTripped)
	if err != nil {
		t.Fatalf("SerializeObservation: %v", err)
	}
	if string(a) != string(c) {
		t.Fatal("serialize(x) should equal serialize(deserialize(serialize(x)))")
	}
}
