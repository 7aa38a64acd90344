// Package spiceerr implements the error state machine
// (failed/reset/setmsg/sigerr/chkin/chkout/getmsg, spec §4.8). It is a
// per-backend struct passed by reference, never a global static (spec §9).
package spiceerr

import "strings"

// State is the error state machine. The zero value is a valid, non-failed
// state.
type State struct {
	failed bool
	short  string
	long   string
	trace  []string
}

// New returns a fresh, non-failed error state.
func New() *State {
	return &State{}
}

// Failed reports whether the state machine is currently in a failed state.
func (s *State) Failed() bool { return s.failed }

// Setmsg sets the long message without marking the state failed
// (spec §4.8).
func (s *State) Setmsg(msg string) {
	s.long = msg
}

// Sigerr marks the state failed with the given short message. It does not
// clear the long message set by the matching Setmsg call (spec §4.8).
func (s *State) Sigerr(short string) {
	s.failed = true
	s.short = short
}

// Reset clears every field back to empty/false.
func (s *State) Reset() {
	s.failed = false
	s.short = ""
	s.long = ""
	s.trace = nil
}

// Chkin pushes a routine name onto the trace stack.
func (s *State) Chkin(name string) {
	s.trace = append(s.trace, name)
}

// Chkout removes the last occurrence of name in the trace stack, tolerant
// to mismatched nesting (spec §4.8).
func (s *State) Chkout(name string) {
	for i := len(s.trace) - 1; i >= 0; i-- {
		if s.trace[i] == name {
			s.trace = append(s.trace[:i], s.trace[i+1:]...)
			return
		}
	}
}

// Getmsg returns the requested message field: "SHORT", "LONG", or
// "EXPLAIN". Unknown kinds return an empty string.
func (s *State) Getmsg(kind string) string {
	switch kind {
	case "SHORT":
		return s.short
	case "LONG":
		return s.long
	case "EXPLAIN":
		return s.explain()
	default:
		return ""
	}
}

// explain formats a combination of the long message and the trace stack,
// innermost-first, per SPEC_FULL's supplement to spec §4.8.
func (s *State) explain() string {
	if s.long == "" && len(s.trace) == 0 {
		return ""
	}
	if len(s.trace) == 0 {
		return s.long
	}
	innermostFirst := make([]string, len(s.trace))
	for i, name := range s.trace {
		innermostFirst[len(s.trace)-1-i] = name
	}
	trace := strings.Join(innermostFirst, " < ")
	if s.long == "" {
		return "-- trace: " + trace
	}
	return s.long + " -- trace: " + trace
}

// Trace returns a copy of the current trace stack, innermost last.
func (s *State) Trace() []string {
	out := make([]string, len(s.trace))
	copy(out, s.trace)
	return out
}

// Snapshot is an immutable copy of the error state for diagnostics
// (spec §3 SpiceErrorState).
type Snapshot struct {
	Failed  bool
	Short   string
	Long    string
	Trace   []string
	Explain string
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Failed:  s.failed,
		Short:   s.short,
		Long:    s.long,
		Trace:   s.Trace(),
		Explain: s.explain(),
	}
}
