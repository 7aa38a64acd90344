// Package compare implements the backend comparator: a tolerance- and
// angle-aware deep equality check between two backends' results for the
// same call, producing path-tagged mismatch reports (spec §4.12).
//
// Diffing is built on github.com/google/go-cmp/cmp's cmp.Reporter walk
// (the library this module inherited from banshee-data-velocity.report's
// use of go-cmp for fixture comparison in cmd/radar/radar_test.go),
// generalized from a single cmp.Diff call into a custom Reporter that
// records every leaf mismatch as a path-tagged Mismatch instead of
// rendering a unified text diff.
package compare

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/rybosome/tspice-sub001/spicemath"
)

// Options controls the tolerance applied to numeric leaves.
type Options struct {
	// AbsTol is the absolute tolerance for float64 comparisons.
	AbsTol float64
	// RelTol is the relative tolerance for float64 comparisons: two values
	// are equal if their absolute difference is within AbsTol, or their
	// relative difference (diff / max(eps, max(|a|,|b|))) is within RelTol
	// (spec §4.12).
	RelTol float64
	// AngleFields names struct/map fields compared angle-aware (wrapped to
	// [-pi, pi) before differencing) instead of by raw difference.
	AngleFields map[string]bool
}

// DefaultOptions is the reference comparator's tolerance: 1e-9 absolute or
// 1e-9 relative, with the canonical SPICE angle field names wrapped
// (spec §4.12).
func DefaultOptions() Options {
	return Options{
		AbsTol: 1e-9,
		RelTol: 1e-9,
		AngleFields: map[string]bool{
			"phase": true, "incidence": true, "emission": true,
			"lon": true, "lat": true,
		},
	}
}

// Mismatch is one path-tagged leaf disagreement (spec §4.12,
// §8 scenario 6).
type Mismatch struct {
	Path     string
	Actual   any
	Expected any
	Message  string
}

// Report is the outcome of comparing two results.
type Report struct {
	Equal      bool
	Mismatches []Mismatch
}

// reporter implements cmp.Reporter, recording a Mismatch for every leaf
// pair cmp visits that does not compare equal under Options.
type reporter struct {
	opts    Options
	path    cmp.Path
	results []Mismatch
}

func (r *reporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *reporter) Report(eq bool) {
	if eq {
		return
	}
	step := r.path.Last()
	x, y := step.Values()
	// An angle-field leaf (the nearest map key above any interface type
	// assertion) is forgiven when both sides agree once wrapped.
	for i := len(r.path) - 1; i >= 0; i-- {
		if _, isAssert := r.path[i].(cmp.TypeAssertion); isAssert {
			continue
		}
		mi, isKey := r.path[i].(cmp.MapIndex)
		af, aok := safeInterface(x).(float64)
		ef, eok := safeInterface(y).(float64)
		if isKey && r.opts.AngleFields[fmt.Sprint(mi.Key())] && aok && eok &&
			floatsEqual(spicemath.WrapPi(af), spicemath.WrapPi(ef), r.opts.AbsTol, r.opts.RelTol) {
			return
		}
		break
	}
	if !x.IsValid() || !y.IsValid() {
		r.results = append(r.results, Mismatch{
			Path:     r.path.GoString(),
			Actual:   safeInterface(x),
			Expected: safeInterface(y),
			Message:  "value present on only one side",
		})
		return
	}
	r.results = append(r.results, Mismatch{
		Path:     r.path.GoString(),
		Actual:   safeInterface(x),
		Expected: safeInterface(y),
		Message:  fmt.Sprintf("%v != %v", safeInterface(x), safeInterface(y)),
	})
}

func (r *reporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

func safeInterface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// Compare performs a deep, tolerance-aware comparison of actual against
// expected (spec §4.12): float64 leaves are equal if they differ by no
// more than opts.AbsTol or by no more than opts.RelTol relative to their
// magnitude; leaves at a path whose final field name is in
// opts.AngleFields are compared after wrapping both sides into [-pi, pi).
func Compare(actual, expected any, opts Options) Report {
	r := &reporter{opts: opts}
	cmp.Diff(actual, expected, cmp.Reporter(r), cmp.Comparer(func(a, b float64) bool {
		return floatsEqual(a, b, opts.AbsTol, opts.RelTol)
	}), cmp.Exporter(func(reflect.Type) bool { return true }))

	if len(r.results) == 0 {
		return Report{Equal: true}
	}
	return Report{Equal: false, Mismatches: dedupeAngleAware(r.results, opts)}
}

// relEpsilon guards the relative-tolerance denominator against division by
// zero when both operands are zero or subnormal.
const relEpsilon = 1e-300

// floatsEqual passes if the absolute difference is within absTol or the
// relative difference is within relTol (spec §4.12: "diff <= tolAbs or
// rel <= tolRel").
func floatsEqual(a, b, absTol, relTol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	diff := math.Abs(a - b)
	if diff <= absTol {
		return true
	}
	scale := math.Max(relEpsilon, math.Max(math.Abs(a), math.Abs(b)))
	return diff/scale <= relTol
}

// dedupeAngleAware re-checks float64 mismatches whose path's final
// selector names an angle field, forgiving mismatches that are only
// apart by a 2*pi wrap (spec §4.12, the angle-aware comparator
// requirement this package's Options.AngleFields exists to serve).
func dedupeAngleAware(mismatches []Mismatch, opts Options) []Mismatch {
	out := make([]Mismatch, 0, len(mismatches))
	for _, m := range mismatches {
		if isAngleLeaf(m.Path, opts) {
			af, aok := toFloat(m.Actual)
			ef, eok := toFloat(m.Expected)
			if aok && eok && floatsEqual(spicemath.WrapPi(af), spicemath.WrapPi(ef), opts.AbsTol, opts.RelTol) {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func toFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func isAngleLeaf(path string, opts Options) bool {
	for field := range opts.AngleFields {
		if hasFieldSuffix(path, field) {
			return true
		}
	}
	return false
}

// hasFieldSuffix reports whether a cmp path string ends in a map/field
// selector equal to field, e.g. `.phase` or `["phase"]`.
func hasFieldSuffix(path, field string) bool {
	suffixes := []string{"." + field, `["` + field + `"]`}
	for _, s := range suffixes {
		if len(path) >= len(s) && path[len(path)-len(s):] == s {
			return true
		}
	}
	return false
}
