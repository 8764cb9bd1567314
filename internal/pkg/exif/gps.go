// Package exif extracts GPS position tags from photo metadata and hands
// them over as rational DMS angles, leaving the arithmetic to geospatial.
package exif

import (
	"errors"
	"io"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/samirrijal/roadwatch/internal/pkg/geospatial"
)

// ErrNoGPS is returned when the image carries no usable GPS tags. Callers
// treat it as "no location", not as a failure.
var ErrNoGPS = errors.New("no gps data in image metadata")

// GPSTags is the raw position block of an image: one DMS angle plus
// hemisphere reference per axis. Either axis may be missing.
type GPSTags struct {
	Latitude     *geospatial.Angle
	LatitudeRef  geospatial.Hemisphere
	Longitude    *geospatial.Angle
	LongitudeRef geospatial.Hemisphere
}

// ReadGPS decodes the EXIF block of an image and returns its GPS tags.
// Images without EXIF data, or with EXIF data but no GPS IFD, yield ErrNoGPS.
func ReadGPS(r io.Reader) (*GPSTags, error) {
	x, err := goexif.Decode(r)
	if err != nil {
		return nil, ErrNoGPS
	}

	tags := &GPSTags{
		Latitude:     readAngle(x, goexif.GPSLatitude),
		LatitudeRef:  readRef(x, goexif.GPSLatitudeRef),
		Longitude:    readAngle(x, goexif.GPSLongitude),
		LongitudeRef: readRef(x, goexif.GPSLongitudeRef),
	}
	if tags.Latitude == nil && tags.Longitude == nil {
		return nil, ErrNoGPS
	}
	return tags, nil
}

// Decimal converts the tags to signed decimal degrees, per axis.
func (g *GPSTags) Decimal() (lat, lon *float64) {
	return geospatial.ToDecimalPair(g.Latitude, g.LatitudeRef, g.Longitude, g.LongitudeRef)
}

// readAngle pulls a three-rational DMS tag. Malformed or short tags are
// treated as absent rather than errors.
func readAngle(x *goexif.Exif, name goexif.FieldName) *geospatial.Angle {
	tag, err := x.Get(name)
	if err != nil || tag.Count < 3 {
		return nil
	}

	parts := make([]geospatial.Rational, 3)
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil
		}
		parts[i] = geospatial.Rational{Num: num, Den: den}
	}
	return &geospatial.Angle{Degrees: parts[0], Minutes: parts[1], Seconds: parts[2]}
}

func readRef(x *goexif.Exif, name goexif.FieldName) geospatial.Hemisphere {
	tag, err := x.Get(name)
	if err != nil {
		return geospatial.HemisphereUnknown
	}
	return geospatial.ParseHemisphere(rawString(tag))
}

// rawString reads a tag value as text. ASCII refs decode via StringVal; some
// writers store the ref as an undercounted byte field, so fall back to the
// raw tag bytes.
func rawString(tag *tiff.Tag) string {
	if s, err := tag.StringVal(); err == nil {
		return s
	}
	return string(tag.Val)
}
