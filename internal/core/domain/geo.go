package domain

import "github.com/golang/geo/s2"

// Coordinate is a decimal-degree position (WGS 84). Either axis may be
// absent; a coordinate with exactly one present axis is incomplete location
// data and must be persisted as no location at all.
type Coordinate struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// NewCoordinate builds a complete coordinate.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: &lat, Lon: &lon}
}

// Complete reports whether both axes are present.
func (c Coordinate) Complete() bool {
	return c.Lat != nil && c.Lon != nil
}

// InRange reports whether a complete coordinate is a valid point on the
// globe (lat within ±90°, lon within ±180°).
func (c Coordinate) InRange() bool {
	if !c.Complete() {
		return false
	}
	return s2.LatLngFromDegrees(*c.Lat, *c.Lon).IsValid()
}

// Point returns the decimal pair of a complete coordinate.
func (c Coordinate) Point() (lat, lon float64, ok bool) {
	if !c.Complete() {
		return 0, 0, false
	}
	return *c.Lat, *c.Lon, true
}
