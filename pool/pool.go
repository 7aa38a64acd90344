// Package pool implements the kernel pool: a typed variable store (numeric
// or character) with watcher/agent change notifications (spec §4.6).
package pool

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Type discriminates a pool variable's kind.
type Type string

const (
	TypeNumeric   Type = "N"
	TypeCharacter Type = "C"
)

// Entry is a single pool variable: either a numeric or character array.
type Entry struct {
	Type    Type
	Numeric []float64
	Char    []string
}

// RangeError reports an out-of-range start/room argument
// (spec §7: domain.range).
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pool: %s=%d out of range", e.Field, e.Value)
}

// NameError reports an empty (after trim) variable or agent name.
type NameError struct{}

func (e *NameError) Error() string { return "pool: variable/agent name must be non-empty after trim" }

// Pool is the kernel pool: a process-/backend-wide typed variable store
// plus a reverse-indexed watcher mechanism. Pool is not safe for concurrent
// use by multiple cases; spec §5 requires one backend instance per case.
type Pool struct {
	vars    map[string]Entry
	watches map[string]*watch      // agent name -> its watch
	index   map[string]map[string]bool // variable name -> set of watching agents
}

type watch struct {
	names []string
	dirty bool
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{
		vars:    make(map[string]Entry),
		watches: make(map[string]*watch),
		index:   make(map[string]map[string]bool),
	}
}

func trimmed(name string) (string, error) {
	t := strings.TrimSpace(name)
	if t == "" {
		return "", &NameError{}
	}
	return t, nil
}

// PutDouble stores a numeric variable.
func (p *Pool) PutDouble(name string, values []float64) error {
	n, err := trimmed(name)
	if err != nil {
		return err
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	p.vars[n] = Entry{Type: TypeNumeric, Numeric: cp}
	p.touch(n)
	return nil
}

// PutInt stores a numeric variable from ints, each of which must be in
// signed-32 range (spec §4.6).
func (p *Pool) PutInt(name string, values []int64) error {
	n, err := trimmed(name)
	if err != nil {
		return err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return &RangeError{Field: "value", Value: int(v)}
		}
		out[i] = float64(v)
	}
	p.vars[n] = Entry{Type: TypeNumeric, Numeric: out}
	p.touch(n)
	return nil
}

// PutChar stores a character variable.
func (p *Pool) PutChar(name string, values []string) error {
	n, err := trimmed(name)
	if err != nil {
		return err
	}
	cp := make([]string, len(values))
	copy(cp, values)
	p.vars[n] = Entry{Type: TypeCharacter, Char: cp}
	p.touch(n)
	return nil
}

func window[T any](all []T, start, room int) ([]T, error) {
	if start < 0 {
		return nil, &RangeError{Field: "start", Value: start}
	}
	if room <= 0 {
		return nil, &RangeError{Field: "room", Value: room}
	}
	if start >= len(all) {
		return []T{}, nil
	}
	end := start + room
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// GetDouble reads a window of a numeric variable: {found,values} or
// {found:false}.
func (p *Pool) GetDouble(name string, start, room int) (bool, []float64, error) {
	n, err := trimmed(name)
	if err != nil {
		return false, nil, err
	}
	e, ok := p.vars[n]
	if !ok || e.Type != TypeNumeric {
		return false, nil, nil
	}
	vals, err := window(e.Numeric, start, room)
	if err != nil {
		return false, nil, err
	}
	return true, vals, nil
}

// GetInt reads a window of a numeric variable truncated to int64.
func (p *Pool) GetInt(name string, start, room int) (bool, []int64, error) {
	found, vals, err := p.GetDouble(name, start, room)
	if !found || err != nil {
		return found, nil, err
	}
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return true, out, nil
}

// GetChar reads a window of a character variable.
func (p *Pool) GetChar(name string, start, room int) (bool, []string, error) {
	n, err := trimmed(name)
	if err != nil {
		return false, nil, err
	}
	e, ok := p.vars[n]
	if !ok || e.Type != TypeCharacter {
		return false, nil, nil
	}
	vals, err := window(e.Char, start, room)
	if err != nil {
		return false, nil, err
	}
	return true, vals, nil
}

// Describe returns {n, type} for a known variable, or found:false.
func (p *Pool) Describe(name string) (bool, int, Type) {
	n, err := trimmed(name)
	if err != nil {
		return false, 0, ""
	}
	e, ok := p.vars[n]
	if !ok {
		return false, 0, ""
	}
	if e.Type == TypeNumeric {
		return true, len(e.Numeric), e.Type
	}
	return true, len(e.Char), e.Type
}

// Exists reports true only for numeric variables (matches CSPICE's expool).
func (p *Pool) Exists(name string) bool {
	n, err := trimmed(name)
	if err != nil {
		return false
	}
	e, ok := p.vars[n]
	return ok && e.Type == TypeNumeric
}

// GetNamesMatching returns the window [start,start+room) of variable names
// matching a template, where '*' is a multi-wildcard and '%' is a
// single-char wildcard, each escapable with a backslash (spec §4.6).
func (p *Pool) GetNamesMatching(template string, start, room int) ([]string, error) {
	re, err := templateToRegexp(template)
	if err != nil {
		return nil, err
	}
	names := lo.Filter(lo.Keys(p.vars), func(n string, _ int) bool {
		return re.MatchString(n)
	})
	// Sort for deterministic pagination; map iteration order is random.
	sort.Strings(names)
	return window(names, start, room)
}

func templateToRegexp(template string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	escaped := false
	for _, r := range template {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			b.WriteString(".*")
		case r == '%':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func (p *Pool) touch(name string) {
	for agent := range p.index[name] {
		if w, ok := p.watches[agent]; ok {
			w.dirty = true
		}
	}
}

// Watch replaces agent's watched set and marks it dirty, so the next
// CheckUpdate returns true (spec §4.6).
func (p *Pool) Watch(agent string, names []string) error {
	a, err := trimmed(agent)
	if err != nil {
		return err
	}
	p.unindex(a)
	cp := make([]string, len(names))
	copy(cp, names)
	p.watches[a] = &watch{names: cp, dirty: true}
	for _, n := range cp {
		if p.index[n] == nil {
			p.index[n] = make(map[string]bool)
		}
		p.index[n][a] = true
	}
	return nil
}

func (p *Pool) unindex(agent string) {
	old, ok := p.watches[agent]
	if !ok {
		return
	}
	for _, n := range old.names {
		delete(p.index[n], agent)
	}
}

// CheckUpdate reports whether any variable watched by agent has been
// touched since the last check, and clears the flag.
func (p *Pool) CheckUpdate(agent string) bool {
	w, ok := p.watches[agent]
	if !ok {
		return false
	}
	dirty := w.dirty
	w.dirty = false
	return dirty
}

// Clear empties the pool's variables and watches entirely (used by
// kclear, spec §3: "pool watches do not survive kclear").
func (p *Pool) Clear() {
	p.vars = make(map[string]Entry)
	p.watches = make(map[string]*watch)
	p.index = make(map[string]map[string]bool)
}
