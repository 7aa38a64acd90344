package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rybosome/tspice-sub001/backend"
	"github.com/rybosome/tspice-sub001/kernels"
)

func newRunner(t *testing.T) (*Runner, *backend.FakeBackend) {
	t.Helper()
	b := backend.NewFakeBackend()
	r := New(b, b.KernelRegistry(), b.ErrState(), b.KernelMode(), os.ReadFile)
	return r, b
}

func TestRunDispatchesSuccessfully(t *testing.T) {
	r, _ := newRunner(t)
	out := r.Run(Case{Call: "time.str2et", Args: []any{"2000-01-01T12:00:00Z"}})
	if !out.OK {
		t.Fatalf("expected ok, got %+v", out.Error)
	}
	if out.Result.(float64) != 0 {
		t.Errorf("str2et(J2000) = %v, want 0", out.Result)
	}
}

func TestRunReportsUnsupportedCall(t *testing.T) {
	r, _ := newRunner(t)
	out := r.Run(Case{Call: "not.a.real.op", Args: []any{}})
	if out.OK {
		t.Fatal("expected failure")
	}
	if out.Error.Code != "unsupported_call" {
		t.Errorf("Code = %q, want unsupported_call", out.Error.Code)
	}
}

func TestRunReportsInvalidArgs(t *testing.T) {
	r, _ := newRunner(t)
	out := r.Run(Case{Call: "time.str2et", Args: []any{42}})
	if out.OK {
		t.Fatal("expected failure")
	}
	if out.Error.Code != "invalid_args" {
		t.Errorf("Code = %q, want invalid_args", out.Error.Code)
	}
}

func TestRunResetsBackendBetweenCases(t *testing.T) {
	r, b := newRunner(t)
	r.Run(Case{Call: "pool.putd", Args: []any{"VAR", []float64{1, 2, 3}}})

	exists, err := b.Dispatch("pool.expool", []any{"VAR"})
	if err != nil {
		t.Fatal(err)
	}
	if exists.(bool) {
		t.Error("expected pool to be cleared after Run resets the backend")
	}
}

func TestRunStagesKernelsForCase(t *testing.T) {
	r, b := newRunner(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "naif0012.tls")
	if err := os.WriteFile(path, []byte("leapseconds"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := r.Run(Case{
		Call: "kern.ktotal",
		Args: []any{"ALL"},
		Setup: &Setup{Kernels: []KernelEntry{{Path: path}}},
	})
	if !out.OK {
		t.Fatalf("expected ok, got %+v", out.Error)
	}
	if out.Result.(int) != 1 {
		t.Errorf("ktotal during case = %v, want 1 staged kernel", out.Result)
	}
	// The backend is reset after every case (spec §5), so by the time Run
	// returns the registry is empty again.
	if got := b.KernelRegistry().Total(kernels.ALL); got != 0 {
		t.Errorf("Total after reset = %d, want 0", got)
	}
}
