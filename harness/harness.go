// Package harness implements the verification harness: it loads case
// files, drives each through a fresh, isolated backend pair via an
// alitto/pond worker pool, in the same bounded batch-conversion pool
// style used for bulk file processing elsewhere, compares the two
// outcomes, and renders a report (spec §4.12, §6).
package harness

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alitto/pond"

	"github.com/rybosome/tspice-sub001/backend"
	"github.com/rybosome/tspice-sub001/compare"
	"github.com/rybosome/tspice-sub001/runner"
)

// BackendFactory builds one fresh, case-isolated backend instance
// (spec §5: a backend instance must never be shared across concurrent
// cases). The harness calls it twice per case -- once per side of the
// comparison -- so every case gets its own pair.
type BackendFactory func() backend.Backend

// CaseResult is one case's outcome: its two backend outcomes plus the
// comparator's verdict when both sides succeeded.
type CaseResult struct {
	Name     string
	Actual   runner.Outcome
	Expected runner.Outcome
	Diff     *compare.Report
	Err      error // internal error unrelated to the case itself (spec §7 "internal" code 2)
}

// Harness runs a batch of cases against two backend factories (spec §6:
// "drive both backends"). In this module both factories typically build a
// FakeBackend; real deployments would pass a native/WASM-backed factory as
// the second side.
type Harness struct {
	actual, expected BackendFactory
	compareOpts      compare.Options
	workers          int
}

// New builds a harness with one worker per available CPU. Each case
// spawns two backend instances (one per side of the comparison), so
// this is half the per-task concurrency a single-backend batch job
// would use for the same CPU count.
func New(actual, expected BackendFactory) *Harness {
	return &Harness{
		actual:      actual,
		expected:    expected,
		compareOpts: compare.DefaultOptions(),
		workers:     runtime.NumCPU(),
	}
}

// WithCompareOptions overrides the comparator tolerance.
func (h *Harness) WithCompareOptions(opts compare.Options) *Harness {
	h.compareOpts = opts
	return h
}

// RunAll executes every named case concurrently, each case's two sides
// isolated to their own backend pair (spec §5), and returns one CaseResult
// per case. The result order follows Go's map iteration over cases and is
// not defined.
func (h *Harness) RunAll(ctx context.Context, cases map[string]runner.Case) []CaseResult {
	names := make([]string, 0, len(cases))
	for name := range cases {
		names = append(names, name)
	}

	pool := pond.New(h.workers, 0, pond.MinWorkers(h.workers), pond.Context(ctx))
	defer pool.StopAndWait()

	results := make([]CaseResult, len(names))
	for i, name := range names {
		i, name := i, name
		c := cases[name]
		pool.Submit(func() {
			results[i] = h.runOne(name, c)
		})
	}
	pool.StopAndWait()
	return results
}

func (h *Harness) runOne(name string, c runner.Case) CaseResult {
	actualOutcome, err := dispatchCase(h.actual(), c)
	if err != nil {
		return CaseResult{Name: name, Err: err}
	}
	expectedOutcome, err := dispatchCase(h.expected(), c)
	if err != nil {
		return CaseResult{Name: name, Err: err}
	}

	result := CaseResult{Name: name, Actual: actualOutcome, Expected: expectedOutcome}
	if actualOutcome.OK && expectedOutcome.OK {
		diff := compare.Compare(actualOutcome.Result, expectedOutcome.Result, h.compareOpts)
		result.Diff = &diff
	}
	return result
}

func dispatchCase(b backend.Backend, c runner.Case) (runner.Outcome, error) {
	// Each backend instance is fresh per call, so there is no shared kernel
	// registry/err state to hand the runner; a harness-driven case is
	// expected to carry everything it needs in args (spec §6's case file
	// already supports setup.kernels for the rarer case that does need
	// staging, handled by the case runner directly when wired to a live
	// registry -- see cmd/tspicectl's "run" command).
	def, err := b.Table().Lookup(c.Call)
	if err != nil {
		return runner.Outcome{OK: false, Error: &runner.Failure{Message: err.Error(), Code: "unsupported_call"}}, nil
	}
	if err := backend.Validate(def, c.Args); err != nil {
		return runner.Outcome{OK: false, Error: &runner.Failure{Message: err.Error(), Code: "invalid_args"}}, nil
	}
	res, err := b.Dispatch(c.Call, c.Args)
	if err != nil {
		return runner.Outcome{OK: false, Error: &runner.Failure{Message: err.Error()}}, nil
	}
	return runner.Outcome{OK: true, Result: res}, nil
}

// ExitCode derives the harness exit code from a batch of results
// (spec §6: "0 success/all cases match within tolerance; 1 at least one
// mismatch; 2 internal error").
func ExitCode(results []CaseResult) int {
	mismatch := false
	for _, r := range results {
		if r.Err != nil {
			return 2
		}
		if r.Diff != nil && !r.Diff.Equal {
			mismatch = true
		}
		if r.Diff == nil && (r.Actual.OK != r.Expected.OK) {
			mismatch = true
		}
	}
	if mismatch {
		return 1
	}
	return 0
}

// Summary renders a one-line-per-case human-readable report.
func Summary(results []CaseResult) string {
	out := ""
	for _, r := range results {
		switch {
		case r.Err != nil:
			out += fmt.Sprintf("%s: INTERNAL ERROR: %v\n", r.Name, r.Err)
		case r.Diff != nil && r.Diff.Equal:
			out += fmt.Sprintf("%s: OK\n", r.Name)
		case r.Diff != nil:
			out += fmt.Sprintf("%s: MISMATCH (%d fields)\n", r.Name, len(r.Diff.Mismatches))
			for _, m := range r.Diff.Mismatches {
				out += fmt.Sprintf("  %s: %s\n", m.Path, m.Message)
			}
		default:
			out += fmt.Sprintf("%s: %v vs %v\n", r.Name, r.Actual.OK, r.Expected.OK)
		}
	}
	return out
}
