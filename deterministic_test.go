package polyfit

import "testing"

func makeDirectObs(xs, ys []float64) []Observation {
	obs := make([]Observation, len(xs))
	for i := range xs {
		obs[i] = NewDirectObservation(xs[i], ys[i])
	}
	return obs
}

func TestDeterministicEstimatorExactFit(t *testing.T) {
	// y = 1 + 2x + 3x^2, degree 2, exactly 3 points.
	p := NewPolynomial([]float64{1, 2, 3})
	xs := []float64{0, 1, 2}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}

	e, err := NewDeterministicEstimator(2)
	if err != nil {
		t.Fatalf("NewDeterministicEstimator: %v", err)
	}
	if err := e.SetEvaluations(makeDirectObs(xs, ys)); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	if !e.IsReady() {
		t.Fatal("estimator should be ready")
	}

	got, err := e.Estimate()
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	for i, c := range p.Coeffs {
		if !almostEqual(got.Coeffs[i], c, 1e-6) {
			t.Errorf("coeff[%d] = %v, want %v", i, got.Coeffs[i], c)
		}
	}
}

// TestDeterministicEstimatorMixedObservationsAcrossDegrees fits every
// degree from 1 to 5 from exactly d+1 mixed observations (direct values,
// a first derivative, and an interval integral) without LMSE, checking the
// generating polynomial comes back to high precision.
func TestDeterministicEstimatorMixedObservationsAcrossDegrees(t *testing.T) {
	coeffs := []float64{2, -1, 0.5, 3, -0.25, 1}
	for d := 1; d <= 5; d++ {
		p := NewPolynomial(coeffs[:d+1])

		derivObs, err := NewDerivativeObservation(1, p.EvalDerivative(1, 1), 1)
		if err != nil {
			t.Fatalf("degree %d: NewDerivativeObservation: %v", d, err)
		}
		intervalVal, err := p.DefiniteIntegral(1, -1, 1, nil)
		if err != nil {
			t.Fatalf("degree %d: DefiniteIntegral: %v", d, err)
		}
		intervalObs, err := NewIntegralIntervalObservation(-1, 1, intervalVal, 1, nil)
		if err != nil {
			t.Fatalf("degree %d: NewIntegralIntervalObservation: %v", d, err)
		}

		obs := []Observation{derivObs, intervalObs}
		for x := 0.0; len(obs) < d+1; x += 0.5 {
			obs = append(obs, NewDirectObservation(x, p.Eval(x)))
		}

		e, err := NewDeterministicEstimator(d)
		if err != nil {
			t.Fatalf("degree %d: NewDeterministicEstimator: %v", d, err)
		}
		if err := e.SetLMSESolutionAllowed(false); err != nil {
			t.Fatalf("degree %d: SetLMSESolutionAllowed: %v", d, err)
		}
		if err := e.SetEvaluations(obs); err != nil {
			t.Fatalf("degree %d: SetEvaluations: %v", d, err)
		}

		got, err := e.Estimate()
		if err != nil {
			t.Fatalf("degree %d: Estimate: %v", d, err)
		}
		for i, c := range p.Coeffs {
			if !almostEqual(got.Coeffs[i], c, 1e-8) {
				t.Errorf("degree %d: coeff[%d] = %v, want %v", d, i, got.Coeffs[i], c)
			}
		}
	}
}

func TestDeterministicEstimatorLMSE(t *testing.T) {
	p := NewPolynomial([]float64{1, 2})
	xs := []float64{0, 1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x) + 0.001*float64(i%2) // tiny perturbation, overdetermined
	}

	e, err := NewDeterministicEstimator(1)
	if err != nil {
		t.Fatalf("NewDeterministicEstimator: %v", err)
	}
	if err := e.SetEvaluations(makeDirectObs(xs, ys)); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	got, err := e.Estimate()
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if !almostEqual(got.Coeffs[0], 1, 0.01) || !almostEqual(got.Coeffs[1], 2, 0.01) {
		t.Fatalf("got %v, want close to [1 2]", got.Coeffs)
	}
}

func TestDeterministicEstimatorNotReady(t *testing.T) {
	e, err := NewDeterministicEstimator(2)
	if err != nil {
		t.Fatalf("NewDeterministicEstimator: %v", err)
	}
	if e.IsReady() {
		t.Fatal("estimator should not be ready with no observations")
	}
	if _, err := e.Estimate(); err == nil {
		t.Fatal("expected error estimating with no observations")
	}
}

func TestDeterministicEstimatorLockedDuringEstimate(t *testing.T) {
	e, err := NewDeterministicEstimator(1)
	if err != nil {
		t.Fatalf("NewDeterministicEstimator: %v", err)
	}
	obs := makeDirectObs([]float64{0, 1}, []float64{0, 1})
	if err := e.SetEvaluations(obs); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}

	listener := &reentrantListener{e: e}
	e.SetListener(listener)
	if _, err := e.Estimate(); err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if listener.reentrantErr == nil {
		t.Fatal("expected Locked error from re-entrant SetDegree during Estimate")
	}
	if !IsKind(listener.reentrantErr, Locked) {
		t.Fatalf("reentrant error kind = %v, want Locked", listener.reentrantErr)
	}
}

type reentrantListener struct {
	e            *DeterministicEstimator
	reentrantErr error
}

func (l *reentrantListener) OnEstimateStart(Estimator) {
	l.reentrantErr = l.e.SetDegree(5)
}
func (l *reentrantListener) OnEstimateEnd(Estimator) {}
