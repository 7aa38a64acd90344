// Package geometry implements the surface-intercept and illumination ops
// against a spherical target model: subpnt, subslr, ilumin, occult
// (spec §4.9).
package geometry

import (
	"github.com/rybosome/tspice-sub001/ephemeris"
	"github.com/rybosome/tspice-sub001/spicemath"
	"github.com/rybosome/tspice-sub001/xform"
)

// SurfacePoint is the result of subpnt/subslr: a surface intercept, the
// observer-to-surface vector, and the epoch.
type SurfacePoint struct {
	Spoint spicemath.Vec3
	Srfvec spicemath.Vec3
	Trgepc float64
}

// Subpnt computes observerName's position relative to targetName, rotated
// into the target-body-fixed frame fixref, unit-normalized and scaled by
// the target's mean radius (spec §4.9). method and abcorr are accepted for
// interface parity with CSPICE's subpnt; neither is validated and neither
// alters the result.
func Subpnt(engine *xform.Engine, method, targetName string, et float64, fixref, abcorr, observerName string, targetRadiusKm float64) (SurfacePoint, error) {
	return intercept(engine, targetName, et, fixref, observerName, targetRadiusKm)
}

// Subslr is the same computation as Subpnt with the observer replaced by
// the Sun (spec §4.9).
func Subslr(engine *xform.Engine, method, targetName string, et float64, fixref, abcorr string, targetRadiusKm float64) (SurfacePoint, error) {
	return intercept(engine, targetName, et, fixref, "SUN", targetRadiusKm)
}

func intercept(engine *xform.Engine, targetName string, et float64, fixref, observerName string, targetRadiusKm float64) (SurfacePoint, error) {
	rel, err := ephemeris.RelativeState(observerName, targetName, et, "NONE")
	if err != nil {
		return SurfacePoint{}, err
	}
	// rel.Pos is observer - target in J2000; that is exactly the observer's
	// position relative to the target center.
	pxform, err := engine.Pxform("J2000", fixref, et)
	if err != nil {
		return SurfacePoint{}, err
	}
	observerInFixref := spicemath.Mat3MulVec(pxform, rel.Pos)
	unit := spicemath.VUnit(observerInFixref)
	spoint := spicemath.VScale(targetRadiusKm, unit)
	srfvec := spicemath.VSub(spoint, observerInFixref)

	return SurfacePoint{Spoint: spoint, Srfvec: srfvec, Trgepc: et}, nil
}

// Illumination holds the phase/incidence/emission angles returned by Ilumin
// (spec §4.9), all radians, clamped through acos.
type Illumination struct {
	Phase     float64
	Incidence float64
	Emission  float64
	Trgepc    float64
}

// Ilumin computes phase, incidence, and emission angles at a surface point
// already expressed in the target-fixed frame fixref (spec §4.9). method
// and abcorr are accepted for interface parity.
func Ilumin(engine *xform.Engine, method, targetName string, et float64, fixref, abcorr, observerName string, spointFixref spicemath.Vec3) (Illumination, error) {
	j2000FromFixref, err := engine.Pxform(fixref, "J2000", et)
	if err != nil {
		return Illumination{}, err
	}
	spointJ2000 := spicemath.Mat3MulVec(j2000FromFixref, spointFixref)

	sunRel, err := ephemeris.RelativeState("SUN", targetName, et, "NONE")
	if err != nil {
		return Illumination{}, err
	}
	obsRel, err := ephemeris.RelativeState(observerName, targetName, et, "NONE")
	if err != nil {
		return Illumination{}, err
	}

	sunFromSurf := spicemath.VSub(sunRel.Pos, spointJ2000)
	obsFromSurf := spicemath.VSub(obsRel.Pos, spointJ2000)
	normal := spicemath.VUnit(spointJ2000)

	sunUnit := spicemath.VUnit(sunFromSurf)
	obsUnit := spicemath.VUnit(obsFromSurf)

	phase := spicemath.AcosClamped(spicemath.VDot(sunUnit, obsUnit))
	incidence := spicemath.AcosClamped(spicemath.VDot(normal, sunUnit))
	emission := spicemath.AcosClamped(spicemath.VDot(normal, obsUnit))

	return Illumination{
		Phase:     phase,
		Incidence: incidence,
		Emission:  emission,
		Trgepc:    et,
	}, nil
}

// Occult is the occultation test. The reference always reports "no
// occultation" (NAIF code 0); real implementations dispatch on the full
// NAIF occultation code set (spec §4.9).
func Occult(targetA, shapeA, frameA, targetB, shapeB, frameB, abcorr, observer string, et float64) int {
	return 0
}
