// Package kernels implements the kernel registry: load/unload/clear of
// named kernels, kind inference from file extension, and meta-kernel
// expansion with path sanitization (spec §4.7).
package kernels

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Kind is the NAIF kernel category (spec §3).
type Kind string

const (
	SPK     Kind = "SPK"
	CK      Kind = "CK"
	PCK     Kind = "PCK"
	DSK     Kind = "DSK"
	TEXT    Kind = "TEXT"
	LSK     Kind = "LSK"
	FK      Kind = "FK"
	IK      Kind = "IK"
	SCLK    Kind = "SCLK"
	EK      Kind = "EK"
	META    Kind = "META"
	UNKNOWN Kind = "UNKNOWN"
	ALL     Kind = "ALL"
)

// Source discriminates a path-backed kernel from a byte-backed one.
type Source string

const (
	SourcePath  Source = "path"
	SourceBytes Source = "bytes"
)

// Record is a loaded kernel (spec §3 KernelRecord).
type Record struct {
	Path   string
	Source Source
	Filtyp string
	Handle int
	Kind   Kind
	Bytes  []byte // only set when Source == SourceBytes
}

var extensionKinds = map[string]Kind{
	".bsp":  SPK,
	".bc":   CK,
	".bpc":  PCK,
	".bds":  DSK,
	".dsk":  DSK,
	".tpc":  TEXT,
	".pck":  TEXT,
	".tls":  LSK,
	".lsk":  LSK,
	".tf":   FK,
	".fk":   FK,
	".ti":   IK,
	".ik":   IK,
	".tsc":  SCLK,
	".sclk": SCLK,
	".ek":   EK,
	".tm":   META,
	".meta": META,
}

// InferKind derives a kernel's Kind from its path extension (spec §4.7).
func InferKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := extensionKinds[ext]; ok {
		return k
	}
	return UNKNOWN
}

// Entry is a kernel-to-load, either a bare path or {path, bytes}.
type Entry struct {
	Path  string
	Bytes []byte // nil for a path-backed load
}

// Registry tracks loaded kernels; handles are process-unique positive
// integers issued in monotonic order and never reused after Clear
// (spec §3, §9).
type Registry struct {
	records   []Record
	nextHandle int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{nextHandle: 1}
}

// Load records a new kernel, inferring its Kind from the path extension and
// issuing a fresh monotonic handle.
func (r *Registry) Load(e Entry) Record {
	source := SourcePath
	if e.Bytes != nil {
		source = SourceBytes
	}
	rec := Record{
		Path:   e.Path,
		Source: source,
		Filtyp: string(InferKind(e.Path)),
		Handle: r.nextHandle,
		Kind:   InferKind(e.Path),
		Bytes:  e.Bytes,
	}
	r.nextHandle++
	r.records = append(r.records, rec)
	return rec
}

// Unload removes the first record matching path.
func (r *Registry) Unload(path string) bool {
	for i, rec := range r.records {
		if rec.Path == path {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the registry. Handles issued before Clear are never reused
// (the monotonic counter is not reset).
func (r *Registry) Clear() {
	r.records = nil
}

func kindMatches(want, have Kind) bool {
	if want == ALL {
		return true
	}
	if want == TEXT {
		return have == TEXT || have == LSK || have == FK || have == IK || have == SCLK
	}
	return want == have
}

// Total counts loaded kernels, optionally filtered by kind (spec §4.7:
// TEXT subsumes LSK/FK/IK/SCLK; ALL matches anything). An empty kind
// filters to ALL.
func (r *Registry) Total(kind Kind) int {
	if kind == "" {
		kind = ALL
	}
	return len(lo.Filter(r.records, func(rec Record, _ int) bool {
		return kindMatches(kind, rec.Kind)
	}))
}

// Data returns the index'th loaded kernel matching kind (see Total), or
// found=false if index is out of range for that filter.
func (r *Registry) Data(index int, kind Kind) (Record, bool) {
	if kind == "" {
		kind = ALL
	}
	matching := lo.Filter(r.records, func(rec Record, _ int) bool {
		return kindMatches(kind, rec.Kind)
	})
	if index < 0 || index >= len(matching) {
		return Record{}, false
	}
	return matching[index], true
}

// All returns every loaded record, in load order.
func (r *Registry) All() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
