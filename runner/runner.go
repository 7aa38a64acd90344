package runner

import (
	"strings"

	"github.com/rybosome/tspice-sub001/backend"
	"github.com/rybosome/tspice-sub001/kernels"
)

// Outcome is a dispatched call's result shape: either {ok:true, result} or
// {ok:false, error} (spec §4.11, §7).
type Outcome struct {
	OK     bool        `json:"ok"`
	Result any         `json:"result,omitempty"`
	Error  *Failure    `json:"error,omitempty"`
}

// Failure is the captured error envelope for a thrown call (spec §4.11:
// "{ok: false, error: {message, name?, stack?, code?, spice?}}").
type Failure struct {
	Message string        `json:"message"`
	Code    string        `json:"code,omitempty"`
	Spice   *SpiceFailure `json:"spice,omitempty"`
}

// SpiceFailure is the error-state snapshot attached to a SPICE-originated
// failure (spec §7: "a spice sub-structure capturing
// {failed, short, long, explain, trace?}").
type SpiceFailure struct {
	Failed  bool     `json:"failed"`
	Short   string   `json:"short,omitempty"`
	Long    string   `json:"long,omitempty"`
	Explain string   `json:"explain,omitempty"`
	Trace   []string `json:"trace,omitempty"`
}

// ErrState is the minimal error-state accessor the runner needs to build a
// SpiceFailure without importing spiceerr directly into every backend that
// might one day implement Backend.
type ErrState interface {
	Failed() bool
	Getmsg(kind string) string
	Trace() []string
}

// Runner drives one backend through isolated cases (spec §4.11, §5: "the
// case runner enforces [non-sharing] by serializing cases on one
// backend").
type Runner struct {
	b          backend.Backend
	kreg       *kernels.Registry
	errState   ErrState
	kernelMode kernels.Source
	read       ReadFile
}

// New builds a runner over one backend instance plus the handles it needs
// to stage kernels and capture SPICE failures. mode selects the backend's
// kernel staging convention (spec §4.11's path-only/byte-only distinction).
func New(b backend.Backend, registry *kernels.Registry, errState ErrState, mode kernels.Source, read ReadFile) *Runner {
	return &Runner{b: b, kreg: registry, errState: errState, kernelMode: mode, read: read}
}

// Run executes one case in isolation (spec §4.11, §5): stage kernels,
// dispatch, capture failure-or-result, then always reset the backend
// before returning, so the next case starts clean regardless of outcome.
func (r *Runner) Run(c Case) (outcome Outcome) {
	defer r.b.Reset()

	if c.Setup != nil {
		stager := NewStager(r.kreg, r.kernelMode, r.read)
		if err := stager.Stage(c.Setup.Kernels); err != nil {
			return r.captureFailure(err, "invalid_request")
		}
	}

	def, err := r.b.Table().Lookup(c.Call)
	if err != nil {
		return r.captureFailure(err, "")
	}
	if err := backend.Validate(def, c.Args); err != nil {
		return r.captureFailure(err, "")
	}

	result, err := r.b.Dispatch(c.Call, c.Args)
	if err != nil {
		return r.captureFailure(err, "")
	}
	return Outcome{OK: true, Result: result}
}

func (r *Runner) captureFailure(err error, forcedCode string) Outcome {
	code := forcedCode
	if code == "" {
		if callErr, ok := err.(*backend.CallError); ok {
			code = string(callErr.Code)
		}
	}

	failure := &Failure{Message: err.Error(), Code: code}
	if r.errState != nil && r.errState.Failed() {
		short, isShort := parseShortSymbol(r.errState.Getmsg("SHORT"))
		spice := &SpiceFailure{
			Failed:  true,
			Long:    r.errState.Getmsg("LONG"),
			Explain: r.errState.Getmsg("EXPLAIN"),
			Trace:   r.errState.Trace(),
		}
		if isShort {
			spice.Short = short
		} else {
			spice.Short = r.errState.Getmsg("SHORT")
		}
		failure.Spice = spice
	}
	return Outcome{OK: false, Error: failure}
}

// parseShortSymbol extracts SYMBOL from a "SPICE(SYMBOL)"-shaped message
// (spec §4.11: "optionally parses a short-name symbol SPICE(SYMBOL) from
// the thrown message").
func parseShortSymbol(msg string) (string, bool) {
	if !strings.HasPrefix(msg, "SPICE(") || !strings.HasSuffix(msg, ")") {
		return "", false
	}
	return msg[len("SPICE(") : len(msg)-1], true
}
