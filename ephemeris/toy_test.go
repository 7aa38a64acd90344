package ephemeris

import (
	"errors"
	"math"
	"testing"
)

func TestEarthAtEpoch(t *testing.T) {
	s, err := RelativeState("EARTH", "SUN", 0, "NONE")
	if err != nil {
		t.Fatalf("RelativeState: %v", err)
	}
	got := s.Pos.Array()
	want := [3]float64{AUKm, 0, 0}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("pos[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestEarthQuarterOrbit(t *testing.T) {
	omega := EarthOmega()
	et := math.Pi / (2 * omega)
	s, err := RelativeState("EARTH", "SUN", et, "NONE")
	if err != nil {
		t.Fatalf("RelativeState: %v", err)
	}
	got := s.Pos.Array()
	want := [3]float64{0, AUKm, 0}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("pos[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestSunIsStationary(t *testing.T) {
	a := SunState(0)
	b := SunState(123456.0)
	if a.Pos.Array() != b.Pos.Array() {
		t.Errorf("sun moved: %v -> %v", a.Pos.Array(), b.Pos.Array())
	}
	if a.Vel.Array() != ([3]float64{0, 0, 0}) {
		t.Errorf("sun velocity not zero: %v", a.Vel.Array())
	}
}

func TestUnknownBodyNotFound(t *testing.T) {
	_, err := AbsoluteState("PLUTO", 0)
	if err == nil {
		t.Fatal("expected error for unknown body")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected *NotFoundError, got %T", err)
	}
}
