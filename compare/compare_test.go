package compare

import (
	"math"
	"testing"
)

func TestCompareEqualWithinTolerance(t *testing.T) {
	opts := DefaultOptions()
	a := map[string]any{"et": 123.0000000001}
	b := map[string]any{"et": 123.0}
	rep := Compare(a, b, opts)
	if !rep.Equal {
		t.Fatalf("expected equal within tolerance, got mismatches: %+v", rep.Mismatches)
	}
}

func TestCompareReportsPathTaggedMismatch(t *testing.T) {
	opts := DefaultOptions()
	a := map[string]any{"spoint": []float64{1, 2, 3}}
	b := map[string]any{"spoint": []float64{1, 2, 999}}
	rep := Compare(a, b, opts)
	if rep.Equal {
		t.Fatal("expected mismatch")
	}
	if len(rep.Mismatches) == 0 {
		t.Fatal("expected at least one mismatch")
	}
	if rep.Mismatches[0].Path == "" {
		t.Errorf("expected a non-empty mismatch path, got %+v", rep.Mismatches[0])
	}
}

func TestCompareAngleWrapForgivesTwoPiDifference(t *testing.T) {
	opts := DefaultOptions()
	a := map[string]any{"phase": 0.001}
	b := map[string]any{"phase": 0.001 + 2*math.Pi}
	rep := Compare(a, b, opts)
	if !rep.Equal {
		t.Fatalf("expected angle-wrapped equality, got: %+v", rep.Mismatches)
	}
}

func TestCompareDistinguishesNonAngleFields(t *testing.T) {
	opts := DefaultOptions()
	a := map[string]any{"trgepc": 0.001}
	b := map[string]any{"trgepc": 0.001 + 2*math.Pi}
	rep := Compare(a, b, opts)
	if rep.Equal {
		t.Fatal("non-angle fields must not be wrap-forgiven")
	}
}

func TestCompareRelativeToleranceAcceptsLargeMagnitudeNoise(t *testing.T) {
	opts := Options{AbsTol: 0, RelTol: 1e-12}
	a := map[string]any{"dist": 1.0e8}
	b := map[string]any{"dist": 1.0e8 * (1 + 1e-13)}
	rep := Compare(a, b, opts)
	if !rep.Equal {
		t.Fatalf("expected relative tolerance to absorb small-magnitude-relative noise, got: %+v", rep.Mismatches)
	}
}

func TestCompareRelativeToleranceRejectsExceedingNoise(t *testing.T) {
	opts := Options{AbsTol: 0, RelTol: 1e-12}
	a := map[string]any{"dist": 1.0e8}
	b := map[string]any{"dist": 1.0e8 * (1 + 1e-6)}
	rep := Compare(a, b, opts)
	if rep.Equal {
		t.Fatal("expected relative difference exceeding RelTol to be reported")
	}
}
