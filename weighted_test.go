package polyfit

import "testing"

func TestWeightedEstimatorPrefersHighWeightPoints(t *testing.T) {
	// Two exactly consistent points and one far outlier with near-zero weight.
	e, err := NewWeightedEstimator(1)
	if err != nil {
		t.Fatalf("NewWeightedEstimator: %v", err)
	}
	obs := makeDirectObs([]float64{0, 1, 2}, []float64{1, 3, 1000})
	if err := e.SetEvaluations(obs); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	if err := e.SetWeights([]float64{1, 1, 0.0001}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	if err := e.SetMaxEvaluations(2); err != nil {
		t.Fatalf("SetMaxEvaluations: %v", err)
	}

	got, err := e.Estimate()
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	// y = 1 + 2x fits the first two points exactly; the outlier should be
	// excluded by the top-2 truncation.
	if !almostEqual(got.Coeffs[0], 1, 1e-6) || !almostEqual(got.Coeffs[1], 2, 1e-6) {
		t.Fatalf("got %v, want close to [1 2]", got.Coeffs)
	}
}

func TestWeightedEstimatorRequiresMatchingWeights(t *testing.T) {
	e, err := NewWeightedEstimator(1)
	if err != nil {
		t.Fatalf("NewWeightedEstimator: %v", err)
	}
	obs := makeDirectObs([]float64{0, 1}, []float64{0, 1})
	if err := e.SetEvaluations(obs); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	if e.IsReady() {
		t.Fatal("estimator should not be ready without weights")
	}
	if err := e.SetWeights([]float64{1, 1, 1}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	if e.IsReady() {
		t.Fatal("estimator should not be ready with mismatched weight count")
	}
}

func TestWeightedEstimatorRejectsNegativeWeight(t *testing.T) {
	e, err := NewWeightedEstimator(1)
	if err != nil {
		t.Fatalf("NewWeightedEstimator: %v", err)
	}
	if err := e.SetWeights([]float64{1, -1}); err == nil {
		t.Fatal("expected error for negative weight")
	}
}
