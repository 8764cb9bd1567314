package usecases

import (
	"bytes"
	"testing"
)

func TestFromManualInRange(t *testing.T) {
	svc := NewLocationService()

	c, err := svc.FromManual(27.7172, 85.3240)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lat, lon, ok := c.Point()
	if !ok || lat != 27.7172 || lon != 85.3240 {
		t.Errorf("unexpected coordinate %v %v %v", lat, lon, ok)
	}
}

func TestFromManualOutOfRange(t *testing.T) {
	svc := NewLocationService()

	cases := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude above 90", 90.01, 0},
		{"latitude below -90", -90.01, 0},
		{"longitude above 180", 0, 180.01},
		{"longitude below -180", 0, -180.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.FromManual(tc.lat, tc.lon); err == nil {
				t.Errorf("expected error for %.2f, %.2f", tc.lat, tc.lon)
			}
		})
	}
}

func TestFromDeviceSensorAccuracyGate(t *testing.T) {
	svc := NewLocationService()

	if _, err := svc.FromDeviceSensor(27.7, 85.3, 15.0); err != nil {
		t.Fatalf("unexpected error for good fix: %v", err)
	}
	if _, err := svc.FromDeviceSensor(27.7, 85.3, 350.0); err == nil {
		t.Error("expected error for low-accuracy fix")
	}
	if _, err := svc.FromDeviceSensor(27.7, 85.3, -1.0); err == nil {
		t.Error("expected error for negative accuracy")
	}
}

func TestFromPhotoWithoutTagsIsAbsentNotError(t *testing.T) {
	svc := NewLocationService()

	// A bare JPEG with no EXIF segment at all.
	c, err := svc.FromPhoto(bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xD9}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Complete() {
		t.Error("expected absent coordinate")
	}
}

func TestFromPhotoGarbageInputIsAbsentNotError(t *testing.T) {
	svc := NewLocationService()

	c, err := svc.FromPhoto(bytes.NewReader([]byte("not an image")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Complete() {
		t.Error("expected absent coordinate")
	}
}
