package geospatial

import (
	"math"
	"testing"
)

func angle(deg, min, sec int64) *Angle {
	return &Angle{
		Degrees: Rational{deg, 1},
		Minutes: Rational{min, 1},
		Seconds: Rational{sec, 1},
	}
}

func TestToDecimal_North(t *testing.T) {
	got, ok := ToDecimal(angle(40, 26, 46), North)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	want := 40.0 + 26.0/60 + 46.0/3600 // ≈ 40.446111
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, got)
	}
}

func TestToDecimal_SouthNegates(t *testing.T) {
	north, _ := ToDecimal(angle(40, 26, 46), North)
	south, ok := ToDecimal(angle(40, 26, 46), South)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	if south != -north {
		t.Errorf("expected %.6f, got %.6f", -north, south)
	}
	if math.Abs(south+40.446111) > 1e-6 {
		t.Errorf("expected ≈ -40.446111, got %.6f", south)
	}
}

func TestToDecimal_WestNegates(t *testing.T) {
	got, ok := ToDecimal(angle(2, 56, 4), West)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	if got >= 0 {
		t.Errorf("expected negative longitude, got %.6f", got)
	}
}

func TestToDecimal_FractionalSeconds(t *testing.T) {
	// 48° 51' 29.64" — seconds stored as 2964/100, as piexif does.
	a := &Angle{
		Degrees: Rational{48, 1},
		Minutes: Rational{51, 1},
		Seconds: Rational{2964, 100},
	}
	got, ok := ToDecimal(a, North)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	want := 48.0 + 51.0/60 + 29.64/3600
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.8f, got %.8f", want, got)
	}
}

func TestToDecimal_AbsentInputs(t *testing.T) {
	if _, ok := ToDecimal(nil, North); ok {
		t.Error("nil angle should not convert")
	}
	if _, ok := ToDecimal(angle(40, 26, 46), HemisphereUnknown); ok {
		t.Error("unknown hemisphere should not convert")
	}
}

func TestToDecimal_ZeroDenominator(t *testing.T) {
	a := &Angle{
		Degrees: Rational{40, 1},
		Minutes: Rational{26, 0},
		Seconds: Rational{46, 1},
	}
	if _, ok := ToDecimal(a, North); ok {
		t.Error("zero denominator should not convert")
	}
}

func TestToDecimalPair_IndependentAxes(t *testing.T) {
	lat, lon := ToDecimalPair(angle(43, 15, 46), North, nil, West)
	if lat == nil {
		t.Fatal("latitude should convert")
	}
	if lon != nil {
		t.Errorf("absent longitude angle should yield nil, got %.6f", *lon)
	}

	lat, lon = ToDecimalPair(angle(43, 15, 46), North, angle(2, 56, 4), West)
	if lat == nil || lon == nil {
		t.Fatal("both axes should convert")
	}
	if *lon >= 0 {
		t.Errorf("expected negative longitude, got %.6f", *lon)
	}
}

// toDMS is a test-only inverse of ToDecimal, used for the round-trip check.
func toDMS(dec float64) (*Angle, Hemisphere, Hemisphere) {
	v := math.Abs(dec)
	deg := math.Floor(v)
	min := math.Floor((v - deg) * 60)
	sec := (v - deg - min/60) * 3600

	a := &Angle{
		Degrees: Rational{int64(deg), 1},
		Minutes: Rational{int64(min), 1},
		Seconds: Rational{int64(math.Round(sec * 1e6)), 1e6},
	}
	if dec < 0 {
		return a, South, West
	}
	return a, North, East
}

func TestToDecimal_RoundTrip(t *testing.T) {
	for _, v := range []float64{43.262985, -2.935013, 0.000001, -89.999999, 179.5} {
		a, neg, _ := toDMS(v)
		ref := North
		if v < 0 {
			ref = neg
		}
		got, ok := ToDecimal(a, ref)
		if !ok {
			t.Fatalf("round trip of %.6f failed to convert", v)
		}
		if math.Abs(got-v) > 1e-6 {
			t.Errorf("round trip of %.6f drifted to %.8f", v, got)
		}
	}
}

func TestParseHemisphere(t *testing.T) {
	cases := map[string]Hemisphere{
		"N":       North,
		"S":       South,
		"E":       East,
		"W":       West,
		"s":       South,
		"w\x00":   West, // NUL-padded, as raw byte refs arrive
		" N ":     North,
		"":        HemisphereUnknown,
		"NE":      HemisphereUnknown,
		"unknown": HemisphereUnknown,
	}
	for raw, want := range cases {
		if got := ParseHemisphere(raw); got != want {
			t.Errorf("ParseHemisphere(%q) = %v, want %v", raw, got, want)
		}
	}
}
