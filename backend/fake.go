package backend

import (
	"strconv"
	"strings"

	"github.com/rybosome/tspice-sub001/catalog"
	"github.com/rybosome/tspice-sub001/ephemeris"
	"github.com/rybosome/tspice-sub001/geometry"
	"github.com/rybosome/tspice-sub001/kernels"
	"github.com/rybosome/tspice-sub001/pool"
	"github.com/rybosome/tspice-sub001/spiceerr"
	"github.com/rybosome/tspice-sub001/spicemath"
	"github.com/rybosome/tspice-sub001/spicetime"
	"github.com/rybosome/tspice-sub001/xform"
)

// FakeBackend is the reference implementation of Backend: the only one this
// module builds (spec §4.10, §9 -- native/WASM backends are out of scope).
// One FakeBackend belongs to exactly one case; it must never be shared
// across concurrently running cases (spec §5).
type FakeBackend struct {
	bodies  *catalog.BodyRegistry
	frames  *catalog.FrameRegistry
	xform   *xform.Engine
	pool    *pool.Pool
	kernels *kernels.Registry
	errs    *spiceerr.State
	table   *Table
}

// NewFakeBackend wires every subsystem package together and builds the flat
// dispatch table spec §6 names.
func NewFakeBackend() *FakeBackend {
	bodies := catalog.NewBodyRegistry()
	frames := catalog.NewFrameRegistry(bodies)
	b := &FakeBackend{
		bodies:  bodies,
		frames:  frames,
		xform:   xform.NewEngine(frames),
		pool:    pool.New(),
		kernels: kernels.New(),
		errs:    spiceerr.New(),
	}
	b.table = b.buildTable()
	return b
}

// Dispatch routes a call by its canonical name through the schema validator
// and into the bound op implementation (spec §4.10, §4.11).
func (b *FakeBackend) Dispatch(name string, args []any) (any, error) {
	return b.table.Dispatch(name, args)
}

// Table exposes the dispatch table for introspection (the case runner uses
// this to validate a call before staging kernels for it).
func (b *FakeBackend) Table() *Table { return b.table }

// KernelRegistry exposes the backend's kernel registry so the case runner
// can stage kernels into it directly (spec §4.11).
func (b *FakeBackend) KernelRegistry() *kernels.Registry { return b.kernels }

// ErrState exposes the backend's error state machine so the case runner can
// capture a SPICE failure snapshot after a thrown call (spec §4.11, §7).
func (b *FakeBackend) ErrState() *spiceerr.State { return b.errs }

// KernelMode reports this backend's kernel staging convention. The fake
// backend never reads file contents (its toy ephemeris needs none), so it
// is modeled as byte-only: every kernel is read into memory by the case
// runner and furnished by a virtual id (spec §4.11's byte-only convention).
func (b *FakeBackend) KernelMode() kernels.Source { return kernels.SourceBytes }

// Reset clears kernel pool, kernel registry, and error state: the per-case
// isolation boundary the case runner enforces between cases (spec §5).
func (b *FakeBackend) Reset() {
	b.pool.Clear()
	b.kernels.Clear()
	b.errs.Reset()
}

// found/notFound mirror catalog.Found's envelope shape for non-catalog
// results, so every op returns the same {found, value} structure spec §6
// requires for lookups that can legitimately miss.
type found struct {
	Found bool `json:"found"`
	Value any  `json:"value,omitempty"`
}

func ok(v any) found      { return found{Found: true, Value: v} }
func missing() found      { return found{Found: false} }

// wrapNotFound turns a known not-found-style domain error into a
// {found:false} envelope instead of a thrown call error, and passes any
// other error straight through (spec §7: domain.not_found is reported in
// the result shape, not via invalid_request/invalid_args/unsupported_call).
func wrapNotFound(v any, err error, isNotFound func(error) bool) (any, error) {
	if err == nil {
		return ok(v), nil
	}
	if isNotFound(err) {
		return missing(), nil
	}
	return nil, err
}

// --- per-op argument schemas, consumed by argsFromSchema via RegisterSchema ---

type str2etSig struct {
	S string `op:"kind=string"`
}

type et2utcSig struct {
	ET     float64 `op:"kind=float64"`
	Format string  `op:"kind=string"`
	Prec   int     `op:"kind=int"`
}

type nameSig struct {
	Name string `op:"kind=string"`
}

type idSig struct {
	ID int `op:"kind=int"`
}

type pxformSig struct {
	From string  `op:"kind=string"`
	To   string  `op:"kind=string"`
	ET   float64 `op:"kind=float64"`
}

type spkezrSig struct {
	Target  string  `op:"kind=string"`
	ET      float64 `op:"kind=float64"`
	Frame   string  `op:"kind=string"`
	Abcorr  string  `op:"kind=string"`
	Obs     string  `op:"kind=string"`
}

type spkposSig struct {
	Target string  `op:"kind=string"`
	ET     float64 `op:"kind=float64"`
	Frame  string  `op:"kind=string"`
	Abcorr string  `op:"kind=string"`
	Obs    string  `op:"kind=string"`
}

type subpntSig struct {
	Method string  `op:"kind=string"`
	Target string  `op:"kind=string"`
	ET     float64 `op:"kind=float64"`
	Fixref string  `op:"kind=string"`
	Abcorr string  `op:"kind=string"`
	Obs    string  `op:"kind=string"`
	Radius float64 `op:"kind=float64"`
}

type subslrSig struct {
	Method string  `op:"kind=string"`
	Target string  `op:"kind=string"`
	ET     float64 `op:"kind=float64"`
	Fixref string  `op:"kind=string"`
	Abcorr string  `op:"kind=string"`
	Radius float64 `op:"kind=float64"`
}

type iluminSig struct {
	Method string  `op:"kind=string"`
	Target string  `op:"kind=string"`
	ET     float64 `op:"kind=float64"`
	Fixref string  `op:"kind=string"`
	Abcorr string  `op:"kind=string"`
	Obs    string  `op:"kind=string"`
	Spoint any     `op:"kind=vec3"`
}

type occultSig struct {
	TargetA string  `op:"kind=string"`
	ShapeA  string  `op:"kind=string"`
	FrameA  string  `op:"kind=string"`
	TargetB string  `op:"kind=string"`
	ShapeB  string  `op:"kind=string"`
	FrameB  string  `op:"kind=string"`
	Abcorr  string  `op:"kind=string"`
	Obs     string  `op:"kind=string"`
	ET      float64 `op:"kind=float64"`
}

type putdSig struct {
	Name   string    `op:"kind=string"`
	Values []float64 `op:"kind=[]float64"`
}

type putcSig struct {
	Name   string   `op:"kind=string"`
	Values []string `op:"kind=[]string"`
}

type poolWindowSig struct {
	Name  string `op:"kind=string"`
	Start int    `op:"kind=int"`
	Room  int    `op:"kind=int"`
}

type existsSig struct {
	Name string `op:"kind=string"`
}

type furnshSig struct {
	Path string `op:"kind=string"`
}

type kdataSig struct {
	Index int    `op:"kind=int"`
	Kind  string `op:"kind=string"`
}

type ktotalSig struct {
	Kind string `op:"kind=string"`
}

type getmsgSig struct {
	Kind string `op:"kind=string"`
}

type nameOnlySig struct {
	Name string `op:"kind=string"`
}

type watchSig struct {
	Agent string   `op:"kind=string"`
	Names []string `op:"kind=[]string"`
}

type noArgsSig struct{}

// --- buildTable registers every op name from spec §6. ---

func (b *FakeBackend) buildTable() *Table {
	t := NewTable()

	t.RegisterSchema("time.str2et", str2etSig{}, func(a []any) (any, error) {
		et, err := spicetime.StringToET(a[0].(string))
		if err != nil {
			return nil, err
		}
		return et, nil
	})

	t.RegisterSchema("time.et2utc", et2utcSig{}, func(a []any) (any, error) {
		return spicetime.ETToUTC(a[0].(float64), a[1].(string), a[2].(int))
	})

	t.RegisterSchema("ids-names.bodn2c", nameSig{}, func(a []any) (any, error) {
		found := b.bodies.BodyNameToID(a[0].(string))
		if !found.Ok {
			return missing(), nil
		}
		return ok(found.Value.ID), nil
	})

	t.RegisterSchema("ids-names.bodc2n", idSig{}, func(a []any) (any, error) {
		found := b.bodies.BodyIDToName(a[0].(int))
		if !found.Ok {
			return missing(), nil
		}
		return ok(found.Value.Name), nil
	})

	t.RegisterSchema("frames.namfrm", nameSig{}, func(a []any) (any, error) {
		found := b.frames.FrameNameToCode(a[0].(string))
		if !found.Ok {
			return missing(), nil
		}
		return ok(found.Value.Code), nil
	})

	t.RegisterSchema("frames.frmnam", idSig{}, func(a []any) (any, error) {
		found := b.frames.FrameCodeToName(a[0].(int))
		if !found.Ok {
			return missing(), nil
		}
		return ok(found.Value.Name), nil
	})

	t.RegisterSchema("frames.pxform", pxformSig{}, func(a []any) (any, error) {
		m, err := b.xform.Pxform(a[0].(string), a[1].(string), a[2].(float64))
		return wrapNotFound(m.Array(), err, isXformNotFound)
	})

	t.RegisterSchema("frames.sxform", pxformSig{}, func(a []any) (any, error) {
		m, err := b.xform.Sxform(a[0].(string), a[1].(string), a[2].(float64))
		return wrapNotFound(m.Array(), err, isXformNotFound)
	})

	t.RegisterSchema("ephem.spkezr", spkezrSig{}, func(a []any) (any, error) {
		rel, err := ephemeris.RelativeState(a[0].(string), a[4].(string), a[1].(float64), a[3].(string))
		if err != nil {
			return wrapNotFound(nil, err, isEphemNotFound)
		}
		p, v := rel.Pos.Array(), rel.Vel.Array()
		return ok([6]float64{p[0], p[1], p[2], v[0], v[1], v[2]}), nil
	})

	t.RegisterSchema("ephem.spkpos", spkposSig{}, func(a []any) (any, error) {
		rel, err := ephemeris.RelativeState(a[0].(string), a[4].(string), a[1].(float64), a[3].(string))
		if err != nil {
			return wrapNotFound(nil, err, isEphemNotFound)
		}
		return ok(rel.Pos.Array()), nil
	})

	t.RegisterSchema("geom.subpnt", subpntSig{}, func(a []any) (any, error) {
		sp, err := geometry.Subpnt(b.xform, a[0].(string), a[1].(string), a[2].(float64), a[3].(string), a[4].(string), a[5].(string), a[6].(float64))
		if err != nil {
			return wrapNotFound(nil, err, isEphemNotFound)
		}
		return ok(map[string]any{"spoint": sp.Spoint.Array(), "srfvec": sp.Srfvec.Array(), "trgepc": sp.Trgepc}), nil
	})

	t.RegisterSchema("geom.subslr", subslrSig{}, func(a []any) (any, error) {
		sp, err := geometry.Subslr(b.xform, a[0].(string), a[1].(string), a[2].(float64), a[3].(string), a[4].(string), a[5].(float64))
		if err != nil {
			return wrapNotFound(nil, err, isEphemNotFound)
		}
		return ok(map[string]any{"spoint": sp.Spoint.Array(), "srfvec": sp.Srfvec.Array(), "trgepc": sp.Trgepc}), nil
	})

	t.RegisterSchema("geom.ilumin", iluminSig{}, func(a []any) (any, error) {
		arr, ok2 := asVec3(a[6])
		if !ok2 {
			return nil, &CallError{Code: CodeInvalidArgs, Msg: "geom.ilumin: spoint must be a 3-element numeric array"}
		}
		spoint := spicemath.NewVec3(arr[0], arr[1], arr[2])
		il, err := geometry.Ilumin(b.xform, a[0].(string), a[1].(string), a[2].(float64), a[3].(string), a[4].(string), a[5].(string), spoint)
		if err != nil {
			return wrapNotFound(nil, err, isEphemNotFound)
		}
		return ok(map[string]any{
			"phase": il.Phase, "incidence": il.Incidence, "emission": il.Emission, "trgepc": il.Trgepc,
		}), nil
	})

	t.RegisterSchema("geom.occult", occultSig{}, func(a []any) (any, error) {
		return geometry.Occult(a[0].(string), a[1].(string), a[2].(string), a[3].(string), a[4].(string), a[5].(string), a[6].(string), a[7].(string), a[8].(float64)), nil
	})

	t.RegisterSchema("pool.putd", putdSig{}, func(a []any) (any, error) {
		return nil, b.pool.PutDouble(a[0].(string), a[1].([]float64))
	})

	t.RegisterSchema("pool.puti", putdSig{}, func(a []any) (any, error) {
		vals := a[1].([]float64)
		ints := make([]int64, len(vals))
		for i, v := range vals {
			ints[i] = int64(v)
		}
		return nil, b.pool.PutInt(a[0].(string), ints)
	})

	t.RegisterSchema("pool.putc", putcSig{}, func(a []any) (any, error) {
		return nil, b.pool.PutChar(a[0].(string), a[1].([]string))
	})

	t.RegisterSchema("pool.getd", poolWindowSig{}, func(a []any) (any, error) {
		foundIt, vals, err := b.pool.GetDouble(a[0].(string), a[1].(int), a[2].(int))
		if err != nil {
			return nil, err
		}
		if !foundIt {
			return missing(), nil
		}
		return ok(vals), nil
	})

	t.RegisterSchema("pool.geti", poolWindowSig{}, func(a []any) (any, error) {
		foundIt, vals, err := b.pool.GetInt(a[0].(string), a[1].(int), a[2].(int))
		if err != nil {
			return nil, err
		}
		if !foundIt {
			return missing(), nil
		}
		return ok(vals), nil
	})

	t.RegisterSchema("pool.getc", poolWindowSig{}, func(a []any) (any, error) {
		foundIt, vals, err := b.pool.GetChar(a[0].(string), a[1].(int), a[2].(int))
		if err != nil {
			return nil, err
		}
		if !foundIt {
			return missing(), nil
		}
		return ok(vals), nil
	})

	t.RegisterSchema("pool.getn", poolWindowSig{}, func(a []any) (any, error) {
		names, err := b.pool.GetNamesMatching(a[0].(string), a[1].(int), a[2].(int))
		if err != nil {
			return nil, err
		}
		return ok(names), nil
	})

	t.RegisterSchema("pool.expool", existsSig{}, func(a []any) (any, error) {
		return b.pool.Exists(a[0].(string)), nil
	})

	t.RegisterSchema("pool.dtpool", existsSig{}, func(a []any) (any, error) {
		foundIt, n, typ := b.pool.Describe(a[0].(string))
		if !foundIt {
			return missing(), nil
		}
		return ok(map[string]any{"n": n, "type": string(typ)}), nil
	})

	t.RegisterSchema("pool.swpool", watchSig{}, func(a []any) (any, error) {
		return nil, b.pool.Watch(a[0].(string), a[1].([]string))
	})

	t.RegisterSchema("pool.cvpool", nameOnlySig{}, func(a []any) (any, error) {
		return b.pool.CheckUpdate(a[0].(string)), nil
	})

	t.RegisterSchema("kern.furnsh", furnshSig{}, func(a []any) (any, error) {
		rec := b.kernels.Load(kernels.Entry{Path: a[0].(string)})
		return ok(rec.Handle), nil
	})

	t.RegisterSchema("kern.unload", furnshSig{}, func(a []any) (any, error) {
		return b.kernels.Unload(a[0].(string)), nil
	})

	t.RegisterSchema("kern.kclear", noArgsSig{}, func(a []any) (any, error) {
		b.kernels.Clear()
		b.pool.Clear()
		return nil, nil
	})

	t.RegisterSchema("kern.ktotal", ktotalSig{}, func(a []any) (any, error) {
		return b.kernels.Total(kernels.Kind(a[0].(string))), nil
	})

	t.RegisterSchema("kern.kdata", kdataSig{}, func(a []any) (any, error) {
		rec, okRec := b.kernels.Data(a[0].(int), kernels.Kind(a[1].(string)))
		if !okRec {
			return missing(), nil
		}
		return ok(map[string]any{
			"file": rec.Path, "filtyp": rec.Filtyp, "source": string(rec.Source), "handle": rec.Handle,
		}), nil
	})

	t.RegisterSchema("err.failed", noArgsSig{}, func(a []any) (any, error) {
		return b.errs.Failed(), nil
	})

	t.RegisterSchema("err.reset", noArgsSig{}, func(a []any) (any, error) {
		b.errs.Reset()
		return nil, nil
	})

	t.RegisterSchema("err.getmsg", getmsgSig{}, func(a []any) (any, error) {
		return b.errs.Getmsg(a[0].(string)), nil
	})

	t.RegisterSchema("err.setmsg", nameOnlySig{}, func(a []any) (any, error) {
		b.errs.Setmsg(a[0].(string))
		return nil, nil
	})

	t.RegisterSchema("err.sigerr", nameOnlySig{}, func(a []any) (any, error) {
		b.errs.Sigerr(a[0].(string))
		return nil, nil
	})

	t.RegisterSchema("err.chkin", nameOnlySig{}, func(a []any) (any, error) {
		b.errs.Chkin(a[0].(string))
		return nil, nil
	})

	t.RegisterSchema("err.chkout", nameOnlySig{}, func(a []any) (any, error) {
		b.errs.Chkout(a[0].(string))
		return nil, nil
	})

	return t
}

// asVec3 coerces a decoded call argument into a [3]float64, accepting the
// shape a Go caller would pass ([3]float64 or []float64) as well as the
// shape encoding/json produces for a JSON array argument ([]any of
// float64s), since case files carry spoint as a plain JSON array
// (spec §6 case file: "args: any[]").
func asVec3(v any) ([3]float64, bool) {
	switch x := v.(type) {
	case [3]float64:
		return x, true
	case []float64:
		if len(x) != 3 {
			return [3]float64{}, false
		}
		return [3]float64{x[0], x[1], x[2]}, true
	case []any:
		if len(x) != 3 {
			return [3]float64{}, false
		}
		var out [3]float64
		for i, e := range x {
			f, ok := e.(float64)
			if !ok {
				return [3]float64{}, false
			}
			out[i] = f
		}
		return out, true
	default:
		return [3]float64{}, false
	}
}

func isXformNotFound(err error) bool {
	_, is := err.(*xform.NotFoundError)
	return is
}

func isEphemNotFound(err error) bool {
	_, is := err.(*ephemeris.NotFoundError)
	return is
}

// ParseShortError extracts the CSPICE-style short name from a
// "SPICE(SYMBOL)"-shaped sigerr message, the format the case runner uses to
// populate a failure's spice.short field (SPEC_FULL's error-surface
// supplement, spec §4.8).
func ParseShortError(msg string) (string, bool) {
	if !strings.HasPrefix(msg, "SPICE(") || !strings.HasSuffix(msg, ")") {
		return "", false
	}
	return msg[len("SPICE(") : len(msg)-1], true
}

// FormatHandle renders a kernel handle as the decimal string CSPICE's
// kdata/ktotal diagnostics use.
func FormatHandle(handle int) string {
	return strconv.Itoa(handle)
}
