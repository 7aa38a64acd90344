package spicetime

import (
	"math"
	"testing"
)

func TestStringToETAtJ2000IsZero(t *testing.T) {
	et, err := StringToET("2000-01-01T12:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if et != 0 {
		t.Errorf("StringToET(J2000) = %v, want 0", et)
	}
}

func TestStringToETRejectsMalformedInput(t *testing.T) {
	if _, err := StringToET("not a timestamp"); err == nil {
		t.Fatal("expected a ParseError")
	}
}

func TestStringToETHonorsOffset(t *testing.T) {
	utc, err := StringToET("2000-01-01T12:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	offset, err := StringToET("2000-01-01T13:00:00+01:00")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(utc-offset) > 1e-9 {
		t.Errorf("UTC and +01:00-shifted equivalent should agree: %v vs %v", utc, offset)
	}
}

func TestETToUTCRoundTrip(t *testing.T) {
	const input = "2024-03-15T08:30:45.250Z"
	et, err := StringToET(input)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ETToUTC(et, "ISOC", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != input {
		t.Errorf("ETToUTC(StringToET(%q)) = %q, want %q", input, got, input)
	}
}

func TestETToUTCPrecisionZeroDropsFraction(t *testing.T) {
	et, err := StringToET("2024-03-15T08:30:45Z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ETToUTC(et, "ISOC", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-03-15T08:30:45Z" {
		t.Errorf("got %q", got)
	}
}

func TestETToUTCRejectsOutOfRangePrecision(t *testing.T) {
	if _, err := ETToUTC(0, "ISOC", 13); err == nil {
		t.Fatal("expected precision range error")
	}
	if _, err := ETToUTC(0, "ISOC", -1); err == nil {
		t.Fatal("expected precision range error")
	}
}

func TestETToUTCRoundingRollsOverMonthBoundary(t *testing.T) {
	et, err := StringToET("2024-01-31T23:59:59.9996Z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ETToUTC(et, "ISOC", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-02-01T00:00:00.000Z" {
		t.Errorf("ETToUTC rounding at month boundary = %q, want %q", got, "2024-02-01T00:00:00.000Z")
	}
}

func TestETToUTCRoundingRollsOverYearBoundary(t *testing.T) {
	et, err := StringToET("2023-12-31T23:59:59.9996Z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ETToUTC(et, "ISOC", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-01-01T00:00:00.000Z" {
		t.Errorf("ETToUTC rounding at year boundary = %q, want %q", got, "2024-01-01T00:00:00.000Z")
	}
}

func TestTimoutMatchesFixedPrecisionISOC(t *testing.T) {
	et, err := StringToET("2024-03-15T08:30:45.250Z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Timout(et, "YYYY Mon DD HR:MN:SC")
	if err != nil {
		t.Fatal(err)
	}
	want, err := ETToUTC(et, "ISOC", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Timout = %q, want %q (fixed ISOC precision 3)", got, want)
	}
}
