// Package backend is the backend facade: a flat, name-indexed dispatch
// table uniting the numeric, catalog, time, ephemeris, frame-transform,
// pool, kernel-registry, error-state, and geometry packages behind one
// contract (spec §4.10). Backend is the uniform interface three
// interchangeable implementations (native addon, WASM, and this module's
// fake) could conform to; this module builds only the fake.
package backend

import (
	"fmt"
)

// ErrorCode distinguishes validation failures from SPICE failures
// (spec §4.11).
type ErrorCode string

const (
	CodeInvalidRequest ErrorCode = "invalid_request"
	CodeInvalidArgs    ErrorCode = "invalid_args"
	CodeUnsupportedOp  ErrorCode = "unsupported_call"
)

// CallError is a validation failure raised before an op is ever invoked
// (spec §7: validation.invalid_request/invalid_args/unsupported_call).
type CallError struct {
	Code ErrorCode
	Msg  string
}

func (e *CallError) Error() string { return fmt.Sprintf("backend: %s: %s", e.Code, e.Msg) }

// Backend is the uniform contract three interchangeable implementations
// (native addon, WASM, and this module's fake) conform to (spec §4.10).
// Only FakeBackend is built here.
type Backend interface {
	Dispatch(name string, args []any) (any, error)
	Table() *Table
	Reset()
}

// OpFunc is one dispatchable operation: plain positional args in, a single
// result value (or error) out.
type OpFunc func(args []any) (any, error)

// OpDef is one entry in the dispatch table: its canonical name, its
// argument schema, and its implementation.
type OpDef struct {
	Name string
	Args []ArgSpec
	Fn   OpFunc
	// Aliases are additional canonical names that dispatch to the same
	// OpDef. The fake backend's table registers none; the pool ops are
	// registered under their CSPICE short names (pool.expool, pool.dtpool,
	// pool.swpool, pool.cvpool) only.
	Aliases []string
}

// Table is the flat operation dispatch table (spec §4.10).
type Table struct {
	ops map[string]*OpDef
}

// NewTable builds an empty dispatch table.
func NewTable() *Table {
	return &Table{ops: make(map[string]*OpDef)}
}

// Register adds an op (and its aliases) to the table.
func (t *Table) Register(def *OpDef) {
	t.ops[def.Name] = def
	for _, alias := range def.Aliases {
		t.ops[alias] = def
	}
}

// RegisterSchema registers an op whose argument schema is derived from a
// tagged descriptor struct via argsFromSchema.
func (t *Table) RegisterSchema(name string, schema any, fn OpFunc, aliases ...string) {
	t.Register(&OpDef{Name: name, Args: argsFromSchema(schema), Fn: fn, Aliases: aliases})
}

// Lookup returns the OpDef for name, or CodeUnsupportedOp if unknown.
func (t *Table) Lookup(name string) (*OpDef, error) {
	def, ok := t.ops[name]
	if !ok {
		return nil, &CallError{Code: CodeUnsupportedOp, Msg: fmt.Sprintf("unknown operation %q", name)}
	}
	return def, nil
}

// Names returns every canonical op name registered (aliases excluded),
// sorted is left to the caller.
func (t *Table) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, def := range t.ops {
		if !seen[def.Name] {
			seen[def.Name] = true
			names = append(names, def.Name)
		}
	}
	return names
}

// Validate checks arity and primitive Go types against an op's schema
// (spec §4.11: "validates argument arity and primitive types per the op's
// schema"). It does not type-check the "any"/"vec3" kinds beyond presence,
// since those are structural, not primitive.
func Validate(def *OpDef, args []any) error {
	if len(args) != len(def.Args) {
		return &CallError{Code: CodeInvalidArgs, Msg: fmt.Sprintf(
			"%s: expected %d args, got %d", def.Name, len(def.Args), len(args))}
	}
	for i, spec := range def.Args {
		if !kindMatches(spec.Kind, args[i]) {
			return &CallError{Code: CodeInvalidArgs, Msg: fmt.Sprintf(
				"%s: argument %d (%s) expected kind %q, got %T", def.Name, i, spec.Name, spec.Kind, args[i])}
		}
	}
	return nil
}

func kindMatches(kind string, v any) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindFloat64:
		_, ok := v.(float64)
		return ok
	case KindInt:
		_, ok := v.(int)
		return ok
	case KindStringSlice:
		_, ok := v.([]string)
		return ok
	case KindFloat64Slice:
		_, ok := v.([]float64)
		return ok
	default:
		// KindVec3 / KindAny / unrecognized: presence is enough.
		return true
	}
}

// Dispatch validates and invokes an op by name (spec §4.11's core
// contract, reused directly by the case runner).
func (t *Table) Dispatch(name string, args []any) (any, error) {
	def, err := t.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := Validate(def, args); err != nil {
		return nil, err
	}
	return def.Fn(args)
}
