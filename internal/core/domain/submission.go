package domain

import (
	"strconv"
	"strings"
	"time"
)

// Column names of the submission sheet. Order is part of the contract: the
// header row and every appended row must use exactly this sequence.
const (
	ColRoadName       = "Road Name"
	ColDistrict       = "District"
	ColRoadType       = "Road Type"
	ColCity           = "City"
	ColDistressType   = "Distress Type"
	ColSeverity       = "Severity"
	ColDistressLength = "Distress Length (m)"
	ColDistressWidth  = "Distress Width (m)"
	ColLatitude       = "Latitude"
	ColLongitude      = "Longitude"
	ColNotes          = "Additional Notes"
	ColImageURL       = "Image URL"
)

// Columns returns the fixed 12-column schema in order.
func Columns() []string {
	return []string{
		ColRoadName, ColDistrict, ColRoadType, ColCity,
		ColDistressType, ColSeverity, ColDistressLength, ColDistressWidth,
		ColLatitude, ColLongitude, ColNotes, ColImageURL,
	}
}

// Selectable form options, as presented by the collection form.
var (
	RoadTypes     = []string{"Highway", "Urban Road", "Rural Road", "State Highway", "Other"}
	DistressTypes = []string{"Pothole", "Crack", "Rutting", "Deformation", "Other"}
	Severities    = []string{"Low", "Medium", "High", "Critical"}
)

// Fields holds the user-entered values of one report. DistressLength and
// DistressWidth are nil when the form left them blank.
type Fields struct {
	RoadName       string   `json:"road_name"`
	District       string   `json:"district"`
	RoadType       string   `json:"road_type"`
	City           string   `json:"city"`
	DistressType   string   `json:"distress_type"`
	Severity       string   `json:"severity"`
	DistressLength *float64 `json:"distress_length_m"`
	DistressWidth  *float64 `json:"distress_width_m"`
	Notes          string   `json:"notes"`
}

// Submission is one assembled, validated road-distress report. Immutable
// after assembly; ID and CreatedAt are filled in by the repository.
type Submission struct {
	ID        string     `json:"id,omitempty"`
	Fields    Fields     `json:"fields"`
	Location  Coordinate `json:"location"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// requiredColumns pairs each mandatory field with its column name, in
// column order so the first failure reported is deterministic.
func (f Fields) required() []struct{ column, value string } {
	return []struct{ column, value string }{
		{ColRoadName, f.RoadName},
		{ColDistrict, f.District},
		{ColRoadType, f.RoadType},
		{ColDistressType, f.DistressType},
		{ColSeverity, f.Severity},
	}
}

// Validate checks required fields and numeric ranges. It is the gate that
// runs before any side-effecting step of the submission pipeline.
func (f Fields) Validate() error {
	for _, r := range f.required() {
		if strings.TrimSpace(r.value) == "" {
			return errMissingField(r.column)
		}
	}
	if f.DistressLength != nil && *f.DistressLength < 0 {
		return errInvalidNumeric(ColDistressLength)
	}
	if f.DistressWidth != nil && *f.DistressWidth < 0 {
		return errInvalidNumeric(ColDistressWidth)
	}
	return nil
}

// Assemble validates the fields and produces an immutable submission.
// A coordinate with only one present axis is stored as no location.
// Pure: no storage, no network, safe to call concurrently.
func Assemble(fields Fields, coord Coordinate, imageURL string) (*Submission, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if !coord.Complete() {
		coord = Coordinate{}
	}
	return &Submission{
		Fields:   fields,
		Location: coord,
		ImageURL: imageURL,
	}, nil
}

// Row renders the submission as one ordered row of the 12-column schema.
// Absent optional cells become empty strings, never omitted columns.
func (s *Submission) Row() []string {
	return []string{
		s.Fields.RoadName,
		s.Fields.District,
		s.Fields.RoadType,
		s.Fields.City,
		s.Fields.DistressType,
		s.Fields.Severity,
		formatMeters(s.Fields.DistressLength),
		formatMeters(s.Fields.DistressWidth),
		formatDegrees(s.Location.Lat),
		formatDegrees(s.Location.Lon),
		s.Fields.Notes,
		s.ImageURL,
	}
}

func formatMeters(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDegrees(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}
