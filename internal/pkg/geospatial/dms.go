package geospatial

import "strings"

// Rational is an exact numerator/denominator pair as stored in EXIF GPS tags.
type Rational struct {
	Num int64
	Den int64
}

// Float evaluates the rational in float64. ok is false when the denominator
// is zero.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// Angle is a degrees/minutes/seconds triple, each component rational.
type Angle struct {
	Degrees Rational
	Minutes Rational
	Seconds Rational
}

// Hemisphere is a classified N/S/E/W reference marker. Raw markers from
// metadata are normalized exactly once, via ParseHemisphere; the conversion
// arithmetic only ever sees this enum.
type Hemisphere int

const (
	HemisphereUnknown Hemisphere = iota
	North
	South
	East
	West
)

// ParseHemisphere classifies a raw hemisphere marker. EXIF writers disagree
// on whether the ref is a plain letter, lowercase, or padded with NULs, so
// anything that trims down to n/s/e/w is accepted.
func ParseHemisphere(raw string) Hemisphere {
	s := strings.TrimFunc(raw, func(r rune) bool {
		return r == 0 || r == ' ' || r == '\t'
	})
	switch strings.ToUpper(s) {
	case "N":
		return North
	case "S":
		return South
	case "E":
		return East
	case "W":
		return West
	default:
		return HemisphereUnknown
	}
}

// String returns the single-letter marker, or "" for an unknown hemisphere.
func (h Hemisphere) String() string {
	switch h {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return ""
	}
}

// negative reports whether the hemisphere maps to a negative decimal angle.
func (h Hemisphere) negative() bool {
	return h == South || h == West
}

// ToDecimal converts a DMS angle plus hemisphere reference into signed
// decimal degrees: deg + min/60 + sec/3600, negated for South/West.
// ok is false when the angle is absent, the reference is unknown, or any
// component has a zero denominator. It never panics and never fabricates a
// value; callers fall back to "no location".
func ToDecimal(angle *Angle, ref Hemisphere) (float64, bool) {
	if angle == nil || ref == HemisphereUnknown {
		return 0, false
	}
	deg, ok := angle.Degrees.Float()
	if !ok {
		return 0, false
	}
	min, ok := angle.Minutes.Float()
	if !ok {
		return 0, false
	}
	sec, ok := angle.Seconds.Float()
	if !ok {
		return 0, false
	}
	dec := deg + min/60 + sec/3600
	if ref.negative() {
		dec = -dec
	}
	return dec, true
}

// ToDecimalPair converts a latitude and longitude angle independently.
// An axis that cannot be converted comes back nil; the other axis is
// unaffected. Callers that persist coordinates must treat a pair with only
// one present axis as no location at all (domain.Coordinate.Complete).
func ToDecimalPair(lat *Angle, latRef Hemisphere, lon *Angle, lonRef Hemisphere) (latDeg, lonDeg *float64) {
	if v, ok := ToDecimal(lat, latRef); ok {
		latDeg = &v
	}
	if v, ok := ToDecimal(lon, lonRef); ok {
		lonDeg = &v
	}
	return latDeg, lonDeg
}
