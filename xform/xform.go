// Package xform is the frame transform engine: pxform (3x3) and sxform
// (6x6) between frames in the catalog registry, including the sxform time
// derivative block (spec §4.5).
//
// Open question (spec §9): the toy sxform uses a naive
// omega_delta = omega_from - omega_to derivative, adequate only for the
// J2000/IAU_EARTH/IAU_MOON triple (all rotating about a shared z axis).
// Real frames mix axes; this engine does not attempt that generalization.
package xform

import (
	"fmt"

	"github.com/rybosome/tspice-sub001/catalog"
	"github.com/rybosome/tspice-sub001/spicemath"
)

// NotFoundError reports an unknown frame name passed to Pxform/Sxform
// (spec §7: domain.not_found -- surfaced as {found:false} by the caller).
type NotFoundError struct {
	Frame string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("xform: unknown frame %q", e.Frame)
}

// Engine computes rotations between the frames registered in a
// catalog.FrameRegistry.
type Engine struct {
	frames *catalog.FrameRegistry
}

// NewEngine builds a transform engine over the given frame registry.
func NewEngine(frames *catalog.FrameRegistry) *Engine {
	return &Engine{frames: frames}
}

func (e *Engine) rate(name string) (float64, error) {
	f := e.frames.FrameNameToCode(name)
	if !f.Ok {
		return 0, &NotFoundError{Frame: name}
	}
	return f.Value.RateRadPerSec, nil
}

// Pxform returns the 3x3 rotation matrix from frame "from" to frame "to" at
// ephemeris time et: pxform(A,B,et) = Rz((omegaA - omegaB) * et).
func (e *Engine) Pxform(from, to string, et float64) (spicemath.Mat3, error) {
	omegaFrom, err := e.rate(from)
	if err != nil {
		return spicemath.Mat3{}, err
	}
	omegaTo, err := e.rate(to)
	if err != nil {
		return spicemath.Mat3{}, err
	}
	theta := (omegaFrom - omegaTo) * et
	return spicemath.Rotate(theta, 3), nil
}

// Sxform returns the 6x6 state transform from frame "from" to frame "to" at
// ephemeris time et: the block [[R, 0], [dR, R]] where dR is the time
// derivative of R (spec §4.5).
func (e *Engine) Sxform(from, to string, et float64) (spicemath.Mat6, error) {
	omegaFrom, err := e.rate(from)
	if err != nil {
		return spicemath.Mat6{}, err
	}
	omegaTo, err := e.rate(to)
	if err != nil {
		return spicemath.Mat6{}, err
	}
	omegaDelta := omegaFrom - omegaTo
	theta := omegaDelta * et

	r := spicemath.Rotate(theta, 3)
	dr := spicemath.NewMat3(scaleArray(spicemath.RotateZDeriv(theta).Array(), omegaDelta))
	zero := spicemath.NewMat3([9]float64{})

	return spicemath.NewMat6Blocks(r, zero, dr, r), nil
}

func scaleArray(a [9]float64, s float64) [9]float64 {
	var out [9]float64
	for i, v := range a {
		out[i] = v * s
	}
	return out
}

// ApplyState applies a 6x6 state transform to a state vector
// [x,y,z,vx,vy,vz].
func ApplyState(m spicemath.Mat6, s [6]float64) [6]float64 {
	return spicemath.MulStateVector(m, s)
}
