package pool

import "testing"

func TestWatcherFlow(t *testing.T) {
	p := New()
	if err := p.Watch("A", []string{"X"}); err != nil {
		t.Fatal(err)
	}
	if !p.CheckUpdate("A") {
		t.Error("expected dirty immediately after watch")
	}
	if p.CheckUpdate("A") {
		t.Error("expected not dirty on second check")
	}

	if err := p.PutDouble("X", []float64{1}); err != nil {
		t.Fatal(err)
	}
	if !p.CheckUpdate("A") {
		t.Error("expected dirty after put on watched var")
	}
	if p.CheckUpdate("A") {
		t.Error("expected not dirty on second check after put")
	}

	if err := p.PutDouble("Y", []float64{2}); err != nil {
		t.Fatal(err)
	}
	if p.CheckUpdate("A") {
		t.Error("unrelated write to Y should not dirty A")
	}
}

func TestExistsOnlyForNumeric(t *testing.T) {
	p := New()
	p.PutChar("NAME", []string{"hi"})
	p.PutDouble("N", []float64{1, 2})
	if p.Exists("NAME") {
		t.Error("Exists should be false for character variables")
	}
	if !p.Exists("N") {
		t.Error("Exists should be true for numeric variables")
	}
	if p.Exists("NOPE") {
		t.Error("Exists should be false for unknown variables")
	}
}

func TestDescribe(t *testing.T) {
	p := New()
	p.PutDouble("N", []float64{1, 2, 3})
	found, n, typ := p.Describe("N")
	if !found || n != 3 || typ != TypeNumeric {
		t.Errorf("Describe(N) = %v %v %v", found, n, typ)
	}
	found, _, _ = p.Describe("MISSING")
	if found {
		t.Error("expected not found")
	}
}

func TestGetDoubleWindow(t *testing.T) {
	p := New()
	p.PutDouble("N", []float64{1, 2, 3, 4, 5})
	found, vals, err := p.GetDouble("N", 1, 2)
	if err != nil || !found {
		t.Fatalf("GetDouble: found=%v err=%v", found, err)
	}
	if len(vals) != 2 || vals[0] != 2 || vals[1] != 3 {
		t.Errorf("vals = %v", vals)
	}
}

func TestGetRejectsBadRange(t *testing.T) {
	p := New()
	p.PutDouble("N", []float64{1, 2, 3})
	if _, _, err := p.GetDouble("N", -1, 2); err == nil {
		t.Error("expected error for negative start")
	}
	if _, _, err := p.GetDouble("N", 0, 0); err == nil {
		t.Error("expected error for room<=0")
	}
}

func TestGetNamesMatchingWildcards(t *testing.T) {
	p := New()
	p.PutDouble("BODY10_GM", []float64{1})
	p.PutDouble("BODY399_GM", []float64{2})
	p.PutDouble("FRAME_NAME", []float64{3})

	names, err := p.GetNamesMatching("BODY*_GM", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want 2 matches", names)
	}

	names, err = p.GetNamesMatching("BODY%%%_GM", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "BODY399_GM" {
		t.Errorf("names = %v, want [BODY399_GM]", names)
	}
}

func TestPutIntRejectsOutOfRange(t *testing.T) {
	p := New()
	if err := p.PutInt("N", []int64{1 << 40}); err == nil {
		t.Error("expected range error for int outside signed-32")
	}
}

func TestClearRemovesWatchesAndVars(t *testing.T) {
	p := New()
	p.PutDouble("X", []float64{1})
	p.Watch("A", []string{"X"})
	p.CheckUpdate("A")

	p.Clear()

	if p.Exists("X") {
		t.Error("expected X gone after Clear")
	}
	if p.CheckUpdate("A") {
		t.Error("expected watch gone after Clear")
	}
}
