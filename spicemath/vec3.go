// Package spicemath provides the numeric primitives the rest of the module
// builds on: 3-vectors, row-major 3x3/6x6 matrices, angle wrapping, and
// geodetic/rectangular conversion.
//
// Vector and axis-angle rotation arithmetic is delegated to
// gonum.org/v1/gonum/spatial/r3; matrix composition is delegated to
// gonum.org/v1/gonum/mat. Nothing here reimplements what those packages
// already provide correctly.
package spicemath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a branded 3-vector in km or km/s, used for diagnostics only; the
// underlying value is a plain gonum r3.Vec.
type Vec3 struct {
	V r3.Vec
}

// NewVec3 builds a Vec3 from components, canonicalizing negative zero.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{V: r3.Vec{X: czero(x), Y: czero(y), Z: czero(z)}}
}

func (v Vec3) X() float64 { return v.V.X }
func (v Vec3) Y() float64 { return v.V.Y }
func (v Vec3) Z() float64 { return v.V.Z }

// Array returns the vector as a plain [3]float64 with negative zero
// canonicalized, the shape callers across the backend facade expect.
func (v Vec3) Array() [3]float64 {
	return [3]float64{czero(v.V.X), czero(v.V.Y), czero(v.V.Z)}
}

func VAdd(a, b Vec3) Vec3    { return Vec3{V: r3.Add(a.V, b.V)} }
func VSub(a, b Vec3) Vec3    { return Vec3{V: r3.Sub(a.V, b.V)} }
func VScale(s float64, a Vec3) Vec3 { return Vec3{V: r3.Scale(s, a.V)} }
func VDot(a, b Vec3) float64 { return r3.Dot(a.V, b.V) }
func VCross(a, b Vec3) Vec3  { return Vec3{V: r3.Cross(a.V, b.V)} }
func VNorm(a Vec3) float64   { return r3.Norm(a.V) }

// VUnit returns the unit vector of a, or the zero vector if a is the zero
// vector (mirrors CSPICE's vhat, which defines vhat(0) = 0 rather than
// dividing by zero).
func VUnit(a Vec3) Vec3 {
	n := VNorm(a)
	if n == 0 {
		return NewVec3(0, 0, 0)
	}
	return Vec3{V: r3.Unit(a.V)}
}

// czero canonicalizes negative zero to positive zero so element-wise
// comparisons across backends are stable (spec §4.1, §9).
func czero(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x
}

// WrapPi reduces an angle into [-pi, pi); +pi maps to -pi, so -pi and +pi
// wrap to the same value. It is the plain reduction used by the comparator
// and by callers that need a canonical angle.
func WrapPi(theta float64) float64 {
	const twoPi = 2 * math.Pi
	r := math.Mod(theta+math.Pi, twoPi)
	if r < 0 {
		r += twoPi
	}
	return r - math.Pi
}

// UnwrapPi is the identity map used to validate the round-trip invariant in
// spec §3 ("every quantized angle passes round-trip wrap -> unwrap"): for
// angles already in [-pi, pi) wrapping is idempotent, so unwrap is WrapPi
// itself.
func UnwrapPi(theta float64) float64 {
	return WrapPi(theta)
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AcosClamped computes acos after clamping its argument to [-1, 1], the
// rule spec §6 requires for every angle reported by a geometry op.
func AcosClamped(x float64) float64 {
	return math.Acos(Clamp(x, -1, 1))
}
