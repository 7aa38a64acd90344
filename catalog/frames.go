package catalog

import "strings"

// Frame is an immutable reference frame: a signed code, a canonical name,
// and a constant angular rate (rad/s) about its z-axis relative to J2000.
type Frame struct {
	Code int
	Name string
	// RateRadPerSec is the frame's constant rotation rate about z relative
	// to J2000 (spec §3).
	RateRadPerSec float64
}

const (
	earthSiderealRate = 7.292115855377e-5 // rad/s, Earth's rotation rate about its polar axis
	moonSynodicRate   = 2.6616995e-6      // rad/s, Moon's body-fixed rotation rate (tidally locked, same as its orbital rate)
)

var referenceFrames = []Frame{
	{Code: 1, Name: "J2000", RateRadPerSec: 0},
	{Code: 10013, Name: "IAU_EARTH", RateRadPerSec: earthSiderealRate},
	{Code: 10020, Name: "IAU_MOON", RateRadPerSec: moonSynodicRate},
}

// centerFrames maps a center body's canonical name to the name of its
// body-fixed frame; CenterNameToBodyFixedFrame reads it (spec §4.2).
var centerFrames = map[string]string{
	"EARTH": "IAU_EARTH",
	"MOON":  "IAU_MOON",
}

// FrameRegistry is an immutable, closed-set lookup table for frames.
type FrameRegistry struct {
	byCode map[int]Frame
	byName map[string]Frame
	bodies *BodyRegistry
}

// NewFrameRegistry builds the reference registry, linked to a body registry
// for the by-center-name lookup.
func NewFrameRegistry(bodies *BodyRegistry) *FrameRegistry {
	r := &FrameRegistry{
		byCode: make(map[int]Frame, len(referenceFrames)),
		byName: make(map[string]Frame, len(referenceFrames)),
		bodies: bodies,
	}
	for _, f := range referenceFrames {
		r.byCode[f.Code] = f
		r.byName[f.Name] = f
	}
	return r
}

// FrameNameToCode looks up a frame by name (trimmed, case-insensitive).
func (r *FrameRegistry) FrameNameToCode(name string) Found[Frame] {
	key := strings.ToUpper(strings.TrimSpace(name))
	if f, ok := r.byName[key]; ok {
		return found(f)
	}
	return notFound[Frame]()
}

// FrameCodeToName looks up a frame by integer code.
func (r *FrameRegistry) FrameCodeToName(code int) Found[Frame] {
	if f, ok := r.byCode[code]; ok {
		return found(f)
	}
	return notFound[Frame]()
}

// CenterIDToBodyFixedFrame returns the body-fixed frame for the body with
// the given id (e.g. Earth=399 -> IAU_EARTH). Not found for bodies with no
// registered body-fixed frame (the Sun, in the reference).
func (r *FrameRegistry) CenterIDToBodyFixedFrame(bodyID int) Found[Frame] {
	b := r.bodies.BodyIDToName(bodyID)
	if !b.Ok {
		return notFound[Frame]()
	}
	return r.CenterNameToBodyFixedFrame(b.Value.Name)
}

// CenterNameToBodyFixedFrame is the by-name variant of
// CenterIDToBodyFixedFrame.
func (r *FrameRegistry) CenterNameToBodyFixedFrame(bodyName string) Found[Frame] {
	fname, ok := centerFrames[normalizeName(bodyName)]
	if !ok {
		return notFound[Frame]()
	}
	return r.FrameNameToCode(fname)
}
