package backend

import "testing"

func TestDispatchStr2EtAndEt2Utc(t *testing.T) {
	b := NewFakeBackend()
	et, err := b.Dispatch("time.str2et", []any{"2000-01-01T12:00:00Z"})
	if err != nil {
		t.Fatal(err)
	}
	if et.(float64) != 0 {
		t.Errorf("str2et(J2000) = %v, want 0", et)
	}

	utc, err := b.Dispatch("time.et2utc", []any{0.0, "ISOC", 3})
	if err != nil {
		t.Fatal(err)
	}
	if utc.(string) != "2000-01-01T12:00:00.000Z" {
		t.Errorf("et2utc(0) = %q", utc)
	}
}

func TestDispatchUnknownOpIsUnsupported(t *testing.T) {
	b := NewFakeBackend()
	_, err := b.Dispatch("nope.nope", nil)
	callErr, ok := err.(*CallError)
	if !ok {
		t.Fatalf("expected *CallError, got %T", err)
	}
	if callErr.Code != CodeUnsupportedOp {
		t.Errorf("Code = %v, want %v", callErr.Code, CodeUnsupportedOp)
	}
}

func TestDispatchWrongArityIsInvalidArgs(t *testing.T) {
	b := NewFakeBackend()
	_, err := b.Dispatch("time.str2et", []any{})
	callErr, ok := err.(*CallError)
	if !ok {
		t.Fatalf("expected *CallError, got %T", err)
	}
	if callErr.Code != CodeInvalidArgs {
		t.Errorf("Code = %v, want %v", callErr.Code, CodeInvalidArgs)
	}
}

func TestBodyNameLookupHitAndMiss(t *testing.T) {
	b := NewFakeBackend()
	id, err := b.Dispatch("ids-names.bodn2c", []any{"EARTH"})
	if err != nil {
		t.Fatal(err)
	}
	envelope := id.(found)
	if !envelope.Found || envelope.Value.(int) != 399 {
		t.Errorf("bodn2c(EARTH) = %+v", envelope)
	}

	missingBody, err := b.Dispatch("ids-names.bodn2c", []any{"NOT_A_BODY"})
	if err != nil {
		t.Fatal(err)
	}
	if missingBody.(found).Found {
		t.Error("expected found:false for unknown body")
	}
}

func TestPoolPutdGetdRoundTrip(t *testing.T) {
	b := NewFakeBackend()
	if _, err := b.Dispatch("pool.putd", []any{"DELTET/DELTA_T_A", []float64{32.184}}); err != nil {
		t.Fatal(err)
	}
	got, err := b.Dispatch("pool.getd", []any{"DELTET/DELTA_T_A", 0, 10})
	if err != nil {
		t.Fatal(err)
	}
	envelope := got.(found)
	if !envelope.Found {
		t.Fatal("expected found:true")
	}
	vals := envelope.Value.([]float64)
	if len(vals) != 1 || vals[0] != 32.184 {
		t.Errorf("got %v", vals)
	}
}

func TestPoolSwpoolCvpoolDetectsChange(t *testing.T) {
	b := NewFakeBackend()
	if _, err := b.Dispatch("pool.swpool", []any{"AGENT", []string{"VAR"}}); err != nil {
		t.Fatal(err)
	}
	first, err := b.Dispatch("pool.cvpool", []any{"AGENT"})
	if err != nil {
		t.Fatal(err)
	}
	if !first.(bool) {
		t.Error("expected dirty immediately after swpool")
	}
	second, err := b.Dispatch("pool.cvpool", []any{"AGENT"})
	if err != nil {
		t.Fatal(err)
	}
	if second.(bool) {
		t.Error("expected clean on second check")
	}

	if _, err := b.Dispatch("pool.putd", []any{"VAR", []float64{1}}); err != nil {
		t.Fatal(err)
	}
	third, err := b.Dispatch("pool.cvpool", []any{"AGENT"})
	if err != nil {
		t.Fatal(err)
	}
	if !third.(bool) {
		t.Error("expected dirty after touching a watched variable")
	}
}

func TestKernelFurnshUnloadKtotal(t *testing.T) {
	b := NewFakeBackend()
	if _, err := b.Dispatch("kern.furnsh", []any{"naif0012.tls"}); err != nil {
		t.Fatal(err)
	}
	total, err := b.Dispatch("kern.ktotal", []any{"ALL"})
	if err != nil {
		t.Fatal(err)
	}
	if total.(int) != 1 {
		t.Errorf("ktotal = %v, want 1", total)
	}

	if _, err := b.Dispatch("kern.unload", []any{"naif0012.tls"}); err != nil {
		t.Fatal(err)
	}
	total, err = b.Dispatch("kern.ktotal", []any{"ALL"})
	if err != nil {
		t.Fatal(err)
	}
	if total.(int) != 0 {
		t.Errorf("ktotal after unload = %v, want 0", total)
	}
}

func TestResetClearsPoolKernelsAndErrorState(t *testing.T) {
	b := NewFakeBackend()
	if _, err := b.Dispatch("pool.putd", []any{"VAR", []float64{1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Dispatch("kern.furnsh", []any{"a.bsp"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Dispatch("err.sigerr", []any{"SPICE(TESTERR)"}); err != nil {
		t.Fatal(err)
	}

	b.Reset()

	exists, _ := b.Dispatch("pool.expool", []any{"VAR"})
	if exists.(bool) {
		t.Error("pool should be cleared after Reset")
	}
	total, _ := b.Dispatch("kern.ktotal", []any{"ALL"})
	if total.(int) != 0 {
		t.Error("kernel registry should be cleared after Reset")
	}
	failed, _ := b.Dispatch("err.failed", nil)
	if failed.(bool) {
		t.Error("error state should be reset")
	}
}

func TestGeomSubpntAndIluminComposeAcrossCalls(t *testing.T) {
	b := NewFakeBackend()
	const earthRadius = 6371.0084
	subpnt, err := b.Dispatch("geom.subpnt", []any{
		"NEAR POINT/ELLIPSOID", "EARTH", 0.0, "IAU_EARTH", "NONE", "SUN", earthRadius,
	})
	if err != nil {
		t.Fatal(err)
	}
	spointEnvelope := subpnt.(found)
	result := spointEnvelope.Value.(map[string]any)
	spoint := result["spoint"].([3]float64)

	il, err := b.Dispatch("geom.ilumin", []any{
		"ELLIPSOID", "EARTH", 0.0, "IAU_EARTH", "NONE", "SUN", spoint,
	})
	if err != nil {
		t.Fatal(err)
	}
	ilEnvelope := il.(found)
	angles := ilEnvelope.Value.(map[string]any)
	if angles["incidence"].(float64) > 1e-6 {
		t.Errorf("sub-solar incidence = %v, want ~0", angles["incidence"])
	}
}
