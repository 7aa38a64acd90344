package harness

import (
	"context"
	"testing"

	"github.com/rybosome/tspice-sub001/backend"
	"github.com/rybosome/tspice-sub001/compare"
	"github.com/rybosome/tspice-sub001/runner"
)

func fakeFactory() backend.Backend {
	return backend.NewFakeBackend()
}

func TestRunAllMatchesWhenBothSidesAreTheFakeBackend(t *testing.T) {
	h := New(fakeFactory, fakeFactory)
	cases := map[string]runner.Case{
		"str2et": {Call: "time.str2et", Args: []any{"2000-01-01T12:00:00Z"}},
		"bodn2c": {Call: "ids-names.bodn2c", Args: []any{"EARTH"}},
	}
	results := h.RunAll(context.Background(), cases)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if ExitCode(results) != 0 {
		t.Errorf("ExitCode = %d, want 0: %s", ExitCode(results), Summary(results))
	}
}

func TestExitCodeInternalErrorWins(t *testing.T) {
	results := []CaseResult{{Name: "a", Err: context.Canceled}}
	if code := ExitCode(results); code != 2 {
		t.Errorf("ExitCode = %d, want 2", code)
	}
}

func TestExitCodeMismatchWithoutError(t *testing.T) {
	diff := compare.Compare(1.0, 2.0, compare.DefaultOptions())
	results := []CaseResult{{
		Name:     "a",
		Actual:   runner.Outcome{OK: true, Result: 1.0},
		Expected: runner.Outcome{OK: true, Result: 2.0},
		Diff:     &diff,
	}}
	if code := ExitCode(results); code != 1 {
		t.Errorf("ExitCode = %d, want 1", code)
	}
}
