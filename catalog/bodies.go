// Package catalog is the body and frame registry: name<->id/code maps and
// per-frame rotation rates, using the same closed-set lookup style as a
// fixed sensor-ID enum, generalized to a queryable, not-found-tolerant
// registry.
package catalog

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Body is an immutable celestial target.
type Body struct {
	ID           int
	Name         string
	MeanRadiusKm float64
}

// Reference bodies (spec §3): SUN=10, EARTH=399, MOON=301. Real
// implementations expand this closed set; the reference keeps only the toy
// ephemeris's three bodies.
var referenceBodies = []Body{
	{ID: 10, Name: "SUN", MeanRadiusKm: 696000.0},
	{ID: 399, Name: "EARTH", MeanRadiusKm: 6371.0084},
	{ID: 301, Name: "MOON", MeanRadiusKm: 1737.4},
}

// BodyRegistry is an immutable, closed-set lookup table for bodies.
type BodyRegistry struct {
	byID   map[int]Body
	byName map[string]Body
}

// NewBodyRegistry builds the reference registry.
func NewBodyRegistry() *BodyRegistry {
	r := &BodyRegistry{
		byID:   make(map[int]Body, len(referenceBodies)),
		byName: make(map[string]Body, len(referenceBodies)),
	}
	for _, b := range referenceBodies {
		r.byID[b.ID] = b
		r.byName[b.Name] = b
	}
	return r
}

// Found is the two-variant found/not-found sum spec §9 requires in place of
// null/undefined conventions.
type Found[T any] struct {
	Ok    bool
	Value T
}

func found[T any](v T) Found[T]  { return Found[T]{Ok: true, Value: v} }
func notFound[T any]() Found[T]  { var z T; return Found[T]{Ok: false, Value: z} }

func normalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// BodyNameToID looks up a body by name (trimmed, case-insensitive) or by a
// numeric id string ("399" resolves the same as "EARTH" if 399 is known).
func (r *BodyRegistry) BodyNameToID(name string) Found[Body] {
	key := normalizeName(name)
	if b, ok := r.byName[key]; ok {
		return found(b)
	}
	if id, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		if b, ok := r.byID[id]; ok {
			return found(b)
		}
	}
	return notFound[Body]()
}

// BodyIDToName looks up a body by integer id.
func (r *BodyRegistry) BodyIDToName(id int) Found[Body] {
	if b, ok := r.byID[id]; ok {
		return found(b)
	}
	return notFound[Body]()
}

// Names returns every registered body name, for diagnostics. The order is
// Go's map iteration order and is not defined.
func (r *BodyRegistry) Names() []string {
	return lo.Keys(r.byName)
}
