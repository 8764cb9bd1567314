package domain

import (
	"errors"
	"testing"
)

func validFields() Fields {
	length := 1.2
	width := 0.4
	return Fields{
		RoadName:       "Main St",
		District:       "Central",
		RoadType:       "Highway",
		City:           "Bilbao",
		DistressType:   "Pothole",
		Severity:       "High",
		DistressLength: &length,
		DistressWidth:  &width,
		Notes:          "near the bus stop",
	}
}

func TestAssemble_Valid(t *testing.T) {
	sub, err := Assemble(validFields(), NewCoordinate(43.262985, -2.935013), "https://i.ibb.co/abc/photo.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sub.Location.Complete() {
		t.Error("expected complete location")
	}
	if sub.ImageURL == "" {
		t.Error("expected image URL to be kept")
	}
}

func TestAssemble_MissingRoadName(t *testing.T) {
	f := validFields()
	f.RoadName = ""

	_, err := Assemble(f, Coordinate{}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Code != CodeMissingRequiredField || verr.Column != ColRoadName {
		t.Errorf("expected missing %q, got %+v", ColRoadName, verr)
	}
}

func TestAssemble_WhitespaceOnlyRequiredField(t *testing.T) {
	f := validFields()
	f.District = "   "

	_, err := Assemble(f, Coordinate{}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Column != ColDistrict {
		t.Errorf("expected %q, got %q", ColDistrict, verr.Column)
	}
}

func TestAssemble_NegativeLength(t *testing.T) {
	f := validFields()
	bad := -1.0
	f.DistressLength = &bad

	_, err := Assemble(f, Coordinate{}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Code != CodeInvalidNumeric || verr.Column != ColDistressLength {
		t.Errorf("expected invalid %q, got %+v", ColDistressLength, verr)
	}
}

func TestAssemble_CityAndNumericsOptional(t *testing.T) {
	f := validFields()
	f.City = ""
	f.DistressLength = nil
	f.DistressWidth = nil

	if _, err := Assemble(f, Coordinate{}, ""); err != nil {
		t.Fatalf("optional fields must not be required: %v", err)
	}
}

func TestAssemble_PartialCoordinateDropped(t *testing.T) {
	lat := 43.26
	sub, err := Assemble(validFields(), Coordinate{Lat: &lat}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Location.Lat != nil || sub.Location.Lon != nil {
		t.Error("one-axis coordinate must be stored as fully absent")
	}
}

func TestRow_FixedOrderWithAbsentOptionals(t *testing.T) {
	f := Fields{
		RoadName:     "Main St",
		District:     "Central",
		RoadType:     "Highway",
		DistressType: "Pothole",
		Severity:     "High",
	}
	sub, err := Assemble(f, Coordinate{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := sub.Row()
	cols := Columns()
	if len(row) != len(cols) {
		t.Fatalf("expected %d cells, got %d", len(cols), len(row))
	}

	want := []string{"Main St", "Central", "Highway", "", "Pothole", "High", "", "", "", "", "", ""}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %q: expected %q, got %q", cols[i], want[i], row[i])
		}
	}
}

func TestRow_CoordinateFormatting(t *testing.T) {
	sub, err := Assemble(validFields(), NewCoordinate(40.4461111, -3.5), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := sub.Row()
	if row[8] != "40.446111" {
		t.Errorf("latitude cell = %q, want %q", row[8], "40.446111")
	}
	if row[9] != "-3.500000" {
		t.Errorf("longitude cell = %q, want %q", row[9], "-3.500000")
	}
}

func TestCoordinate_InRange(t *testing.T) {
	if !NewCoordinate(43.26, -2.93).InRange() {
		t.Error("valid point rejected")
	}
	if NewCoordinate(91, 0).InRange() {
		t.Error("latitude beyond 90 accepted")
	}
	if NewCoordinate(0, 181).InRange() {
		t.Error("longitude beyond 180 accepted")
	}
	if (Coordinate{}).InRange() {
		t.Error("absent coordinate cannot be in range")
	}
}
