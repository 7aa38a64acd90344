package geometry

import (
	"math"
	"testing"

	"github.com/rybosome/tspice-sub001/catalog"
	"github.com/rybosome/tspice-sub001/spicemath"
	"github.com/rybosome/tspice-sub001/xform"
)

func newEngine() *xform.Engine {
	bodies := catalog.NewBodyRegistry()
	frames := catalog.NewFrameRegistry(bodies)
	return xform.NewEngine(frames)
}

func TestSubpntRadiusScaled(t *testing.T) {
	e := newEngine()
	const earthRadius = 6371.0084
	sp, err := Subpnt(e, "NEAR POINT/ELLIPSOID", "EARTH", 0, "IAU_EARTH", "NONE", "SUN", earthRadius)
	if err != nil {
		t.Fatalf("Subpnt: %v", err)
	}
	if math.Abs(spicemath.VNorm(sp.Spoint)-earthRadius) > 1e-6 {
		t.Errorf("|spoint| = %v, want %v", spicemath.VNorm(sp.Spoint), earthRadius)
	}
	if sp.Trgepc != 0 {
		t.Errorf("Trgepc = %v, want 0", sp.Trgepc)
	}
}

func TestSubslrMatchesSubpntWithSunObserver(t *testing.T) {
	e := newEngine()
	const earthRadius = 6371.0084
	a, err := Subpnt(e, "NEAR POINT/ELLIPSOID", "EARTH", 1000, "IAU_EARTH", "NONE", "SUN", earthRadius)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Subslr(e, "NEAR POINT/ELLIPSOID", "EARTH", 1000, "IAU_EARTH", "NONE", earthRadius)
	if err != nil {
		t.Fatal(err)
	}
	if a.Spoint.Array() != b.Spoint.Array() {
		t.Errorf("subpnt(observer=SUN) = %v, subslr = %v", a.Spoint, b.Spoint)
	}
}

func TestIluminAnglesWithinRange(t *testing.T) {
	e := newEngine()
	const earthRadius = 6371.0084
	sp, err := Subpnt(e, "NEAR POINT/ELLIPSOID", "EARTH", 0, "IAU_EARTH", "NONE", "SUN", earthRadius)
	if err != nil {
		t.Fatal(err)
	}
	il, err := Ilumin(e, "ELLIPSOID", "EARTH", 0, "IAU_EARTH", "NONE", "SUN", sp.Spoint)
	if err != nil {
		t.Fatal(err)
	}
	for name, angle := range map[string]float64{
		"phase": il.Phase, "incidence": il.Incidence, "emission": il.Emission,
	} {
		if angle < 0 || angle > math.Pi {
			t.Errorf("%s = %v out of [0, pi]", name, angle)
		}
	}
	// The sub-solar point faces the sun directly: incidence ~ 0.
	if math.Abs(il.Incidence) > 1e-6 {
		t.Errorf("sub-solar incidence = %v, want ~0", il.Incidence)
	}
}

func TestOccultAlwaysZero(t *testing.T) {
	if got := Occult("EARTH", "ELLIPSOID", "IAU_EARTH", "MOON", "ELLIPSOID", "IAU_MOON", "NONE", "SUN", 0); got != 0 {
		t.Errorf("Occult = %d, want 0", got)
	}
}
