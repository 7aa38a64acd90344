// Package ephemeris computes the deterministic toy solar system positions
// and velocities (spec §4.4): Sun stationary at the origin, Earth and Moon
// on closed-form circular coplanar orbits. This is explicitly a
// deterministic stand-in, not a model of real celestial mechanics.
package ephemeris

import (
	"fmt"
	"math"

	"github.com/rybosome/tspice-sub001/spicemath"
)

const (
	// AUKm is one astronomical unit in km.
	AUKm = 149_597_870.7
	// EarthOrbitPeriodSec is the toy Earth orbital period.
	EarthOrbitPeriodSec = 365.25 * 86400.0
	// MoonOrbitRadiusKm is the toy Moon orbital radius about Earth.
	MoonOrbitRadiusKm = 384_400.0
	// MoonOrbitPeriodSec is the toy Moon orbital period.
	MoonOrbitPeriodSec = 27.321661 * 86400.0
)

// EarthOmega is Earth's toy orbital angular rate, rad/s.
func EarthOmega() float64 { return 2 * math.Pi / EarthOrbitPeriodSec }

// MoonOmega is the Moon's toy orbital angular rate about Earth, rad/s.
func MoonOmega() float64 { return 2 * math.Pi / MoonOrbitPeriodSec }

// State is a position/velocity pair in km, km/s.
type State struct {
	Pos spicemath.Vec3
	Vel spicemath.Vec3
}

// NotFoundError reports a body this ephemeris has no state for
// (spec §7: domain.not_found, surfaced as {found:false} by the caller, not
// thrown -- see backend/fake.go).
type NotFoundError struct {
	Body string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ephemeris: no toy state for body %q", e.Body)
}

// SunState is the Sun's absolute J2000 state: stationary at the origin.
func SunState(et float64) State {
	return State{Pos: spicemath.NewVec3(0, 0, 0), Vel: spicemath.NewVec3(0, 0, 0)}
}

// EarthState is Earth's absolute J2000 state: a circular coplanar orbit of
// radius 1 AU.
func EarthState(et float64) State {
	omega := EarthOmega()
	theta := omega * et
	s, c := math.Sincos(theta)
	pos := spicemath.NewVec3(AUKm*c, AUKm*s, 0)
	vel := spicemath.NewVec3(-AUKm*omega*s, AUKm*omega*c, 0)
	return State{Pos: pos, Vel: vel}
}

// MoonState is the Moon's absolute J2000 state: Earth's state plus a
// circular coplanar orbit of radius 384,400 km about Earth.
func MoonState(et float64) State {
	earth := EarthState(et)
	omega := MoonOmega()
	theta := omega * et
	s, c := math.Sincos(theta)
	rel := State{
		Pos: spicemath.NewVec3(MoonOrbitRadiusKm*c, MoonOrbitRadiusKm*s, 0),
		Vel: spicemath.NewVec3(-MoonOrbitRadiusKm*omega*s, MoonOrbitRadiusKm*omega*c, 0),
	}
	return State{
		Pos: spicemath.VAdd(earth.Pos, rel.Pos),
		Vel: spicemath.VAdd(earth.Vel, rel.Vel),
	}
}

// AbsoluteState returns the absolute J2000 state of a toy body by canonical
// name (SUN, EARTH, MOON), or a NotFoundError for any other name.
func AbsoluteState(bodyName string, et float64) (State, error) {
	switch bodyName {
	case "SUN":
		return SunState(et), nil
	case "EARTH":
		return EarthState(et), nil
	case "MOON":
		return MoonState(et), nil
	default:
		return State{}, &NotFoundError{Body: bodyName}
	}
}

// RelativeState computes target - observer (spec §4.4). Light-time
// correction is always 0 in the reference; abcorr is accepted but never
// alters the result (spec §1 Non-goals, §4.4).
func RelativeState(targetName, observerName string, et float64, abcorr string) (State, error) {
	target, err := AbsoluteState(targetName, et)
	if err != nil {
		return State{}, err
	}
	observer, err := AbsoluteState(observerName, et)
	if err != nil {
		return State{}, err
	}
	return State{
		Pos: spicemath.VSub(target.Pos, observer.Pos),
		Vel: spicemath.VSub(target.Vel, observer.Vel),
	}, nil
}

// ValidAbcorr is the enumerated set of CSPICE abcorr tokens. No op in this
// module checks abcorr against it; every abcorr value is accepted and inert.
var ValidAbcorr = map[string]bool{
	"NONE": true, "LT": true, "LT+S": true, "CN": true, "CN+S": true,
	"XLT": true, "XLT+S": true, "XCN": true, "XCN+S": true,
}
