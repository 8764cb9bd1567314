package usecases

import (
	"fmt"
	"io"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/pkg/exif"
	"github.com/samirrijal/roadwatch/internal/pkg/metrics"
)

// MaxSensorAccuracyMeters is the worst device-location accuracy still
// accepted as a usable fix.
const MaxSensorAccuracyMeters = 200.0

// LocationService resolves a submission's coordinate from one of the three
// supported sources: manual decimal entry, a device location reading, or the
// GPS tags embedded in a photograph. Every path returns either a complete,
// in-range coordinate or an absent one — partial or out-of-range positions
// never leave this service.
type LocationService struct{}

// NewLocationService creates a new LocationService.
func NewLocationService() *LocationService {
	return &LocationService{}
}

// FromManual builds a coordinate from user-entered decimal degrees.
func (s *LocationService) FromManual(lat, lon float64) (domain.Coordinate, error) {
	c := domain.NewCoordinate(lat, lon)
	if !c.InRange() {
		return domain.Coordinate{}, fmt.Errorf("coordinate out of range: %.6f, %.6f", lat, lon)
	}
	return c, nil
}

// FromDeviceSensor builds a coordinate from a device location reading.
// Fixes with poor reported accuracy are rejected rather than stored as if
// they were precise positions.
func (s *LocationService) FromDeviceSensor(lat, lon, accuracyMeters float64) (domain.Coordinate, error) {
	if accuracyMeters < 0 || accuracyMeters > MaxSensorAccuracyMeters {
		return domain.Coordinate{}, fmt.Errorf("sensor accuracy %.0fm exceeds %.0fm limit", accuracyMeters, MaxSensorAccuracyMeters)
	}
	return s.FromManual(lat, lon)
}

// FromPhoto extracts a coordinate from the EXIF GPS tags of an image.
// Images without usable tags yield an absent coordinate and no error; a
// one-axis tag set is treated as fully absent.
func (s *LocationService) FromPhoto(r io.Reader) (domain.Coordinate, error) {
	tags, err := exif.ReadGPS(r)
	if err != nil {
		metrics.ExifExtractions.WithLabelValues("no_gps").Inc()
		return domain.Coordinate{}, nil
	}

	lat, lon := tags.Decimal()
	c := domain.Coordinate{Lat: lat, Lon: lon}
	if !c.Complete() {
		metrics.ExifExtractions.WithLabelValues("partial").Inc()
		return domain.Coordinate{}, nil
	}
	if !c.InRange() {
		metrics.ExifExtractions.WithLabelValues("out_of_range").Inc()
		return domain.Coordinate{}, nil
	}

	metrics.ExifExtractions.WithLabelValues("ok").Inc()
	return c, nil
}
