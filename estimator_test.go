package polyfit

import "testing"

func TestFactoryPreservesTypeTag(t *testing.T) {
	types := []EstimatorType{LMSEType, WeightedType, RANSACType, LMedSType, PROSACType, PROMedSType}
	for _, typ := range types {
		e, err := New(typ, 3)
		if err != nil {
			t.Fatalf("New(%v): %v", typ, err)
		}
		if got := e.GetType(); got != typ {
			t.Errorf("GetType() = %v, want %v", got, typ)
		}
		if got := e.MinNumberOfEvaluations(); got != 4 {
			t.Errorf("%v: MinNumberOfEvaluations() = %d, want 4", typ, got)
		}
	}
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	if _, err := New(EstimatorType(99), 1); err == nil {
		t.Fatal("expected error for unknown estimator type")
	}
}

func TestMinNumberOfEvaluationsTracksDegree(t *testing.T) {
	for d := 1; d <= 5; d++ {
		e, err := NewDeterministicEstimator(d)
		if err != nil {
			t.Fatalf("NewDeterministicEstimator(%d): %v", d, err)
		}
		if got := e.MinNumberOfEvaluations(); got != d+1 {
			t.Errorf("degree %d: MinNumberOfEvaluations() = %d, want %d", d, got, d+1)
		}
	}
}

func TestSetDegreeRejectsNonPositive(t *testing.T) {
	e, err := NewDeterministicEstimator(1)
	if err != nil {
		t.Fatalf("NewDeterministicEstimator: %v", err)
	}
	if err := e.SetDegree(0); err == nil {
		t.Fatal("expected error for degree 0")
	}
	if !IsKind(e.SetDegree(-3), InvalidConfiguration) {
		t.Fatal("expected InvalidConfiguration for negative degree")
	}
}
