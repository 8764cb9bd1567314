package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/core/ports"
)

type mockSubmissionRepo struct {
	InsertFunc          func(ctx context.Context, sub *domain.Submission) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Submission, error)
	ListFunc            func(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error)
	FindNearbyFunc      func(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Submission, error)
	CountBySeverityFunc func(ctx context.Context) ([]ports.SeverityCount, error)
}

func (m *mockSubmissionRepo) Insert(ctx context.Context, sub *domain.Submission) error {
	return m.InsertFunc(ctx, sub)
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockSubmissionRepo) List(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockSubmissionRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Submission, error) {
	return m.FindNearbyFunc(ctx, lat, lon, radiusMeters, limit)
}

func (m *mockSubmissionRepo) CountBySeverity(ctx context.Context) ([]ports.SeverityCount, error) {
	return m.CountBySeverityFunc(ctx)
}

type mockImageStore struct {
	UploadFunc func(ctx context.Context, name string, data []byte) (string, error)
}

func (m *mockImageStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	return m.UploadFunc(ctx, name, data)
}

type mockPublisher struct {
	PublishSubmissionFunc func(ctx context.Context, sub *domain.Submission) error
	PublishBroadcastFunc  func(ctx context.Context, data []byte) error
}

func (m *mockPublisher) PublishSubmission(ctx context.Context, sub *domain.Submission) error {
	return m.PublishSubmissionFunc(ctx, sub)
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return m.PublishBroadcastFunc(ctx, data)
}

func validFields() domain.Fields {
	return domain.Fields{
		RoadName:     "Ring Road",
		District:     "Kathmandu",
		RoadType:     "Urban Road",
		DistressType: "Pothole",
		Severity:     "High",
	}
}

func newService(repo *mockSubmissionRepo, images *mockImageStore, events *mockPublisher) *SubmissionService {
	var img ports.ImageStore
	if images != nil {
		img = images
	}
	var pub ports.EventPublisher
	if events != nil {
		pub = events
	}
	return NewSubmissionService(repo, img, pub, nil, NewLocationService())
}

func TestCreateValidationFailureHasNoSideEffects(t *testing.T) {
	uploaded := false
	inserted := false

	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error {
			inserted = true
			return nil
		},
	}
	images := &mockImageStore{
		UploadFunc: func(ctx context.Context, name string, data []byte) (string, error) {
			uploaded = true
			return "https://img.example/x.jpg", nil
		},
	}

	svc := newService(repo, images, nil)

	fields := validFields()
	fields.RoadName = "   "

	_, err := svc.Create(context.Background(), CreateSubmissionInput{
		Fields: fields,
		Photo:  []byte{0xFF, 0xD8, 0xFF, 0xD9},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Column != domain.ColRoadName {
		t.Errorf("expected column %q, got %q", domain.ColRoadName, verr.Column)
	}
	if uploaded {
		t.Error("image was uploaded despite validation failure")
	}
	if inserted {
		t.Error("submission was stored despite validation failure")
	}
}

func TestCreateStoresAndPublishes(t *testing.T) {
	var stored *domain.Submission
	published := false

	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error {
			sub.ID = "sub-1"
			stored = sub
			return nil
		},
	}
	images := &mockImageStore{
		UploadFunc: func(ctx context.Context, name string, data []byte) (string, error) {
			return "https://img.example/pothole.jpg", nil
		},
	}
	events := &mockPublisher{
		PublishSubmissionFunc: func(ctx context.Context, sub *domain.Submission) error {
			published = true
			return nil
		},
	}

	svc := newService(repo, images, events)

	sub, err := svc.Create(context.Background(), CreateSubmissionInput{
		Fields:    validFields(),
		Reading:   &DeviceReading{Lat: 27.7172, Lon: 85.3240},
		Photo:     []byte{0xFF, 0xD8, 0xFF, 0xD9},
		PhotoName: "pothole.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("submission was not stored")
	}
	if sub.ID != "sub-1" {
		t.Errorf("expected repository-assigned ID, got %q", sub.ID)
	}
	if sub.ImageURL != "https://img.example/pothole.jpg" {
		t.Errorf("unexpected image URL %q", sub.ImageURL)
	}
	lat, lon, ok := sub.Location.Point()
	if !ok || lat != 27.7172 || lon != 85.3240 {
		t.Errorf("unexpected location %v %v %v", lat, lon, ok)
	}
	if !published {
		t.Error("submission event was not published")
	}
}

func TestCreateUploadFailureDegradesToNoImage(t *testing.T) {
	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error { return nil },
	}
	images := &mockImageStore{
		UploadFunc: func(ctx context.Context, name string, data []byte) (string, error) {
			return "", errors.New("image host unavailable")
		},
	}

	svc := newService(repo, images, nil)

	sub, err := svc.Create(context.Background(), CreateSubmissionInput{
		Fields: validFields(),
		Photo:  []byte{0xFF, 0xD8, 0xFF, 0xD9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ImageURL != "" {
		t.Errorf("expected empty image URL, got %q", sub.ImageURL)
	}
}

func TestCreateExplicitReadingBeatsPhoto(t *testing.T) {
	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error { return nil },
	}

	svc := newService(repo, nil, nil)

	// The photo carries no GPS tags; the reading must win regardless.
	sub, err := svc.Create(context.Background(), CreateSubmissionInput{
		Fields:  validFields(),
		Reading: &DeviceReading{Lat: 40.0, Lon: -3.5},
		Photo:   []byte{0xFF, 0xD8, 0xFF, 0xD9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lat, lon, ok := sub.Location.Point()
	if !ok || lat != 40.0 || lon != -3.5 {
		t.Errorf("expected explicit reading, got %v %v %v", lat, lon, ok)
	}
}

func TestCreateOutOfRangeReadingRejected(t *testing.T) {
	inserted := false
	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error {
			inserted = true
			return nil
		},
	}

	svc := newService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSubmissionInput{
		Fields:  validFields(),
		Reading: &DeviceReading{Lat: 95.0, Lon: 10.0},
	})
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
	if inserted {
		t.Error("submission stored despite invalid coordinate")
	}
}

func TestCreateWithoutLocationSucceeds(t *testing.T) {
	repo := &mockSubmissionRepo{
		InsertFunc: func(ctx context.Context, sub *domain.Submission) error { return nil },
	}

	svc := newService(repo, nil, nil)

	sub, err := svc.Create(context.Background(), CreateSubmissionInput{Fields: validFields()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Location.Complete() {
		t.Error("expected absent location")
	}
}

func TestListClampsLimit(t *testing.T) {
	var got ports.SubmissionFilter
	repo := &mockSubmissionRepo{
		ListFunc: func(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error) {
			got = filter
			return nil, 0, nil
		},
	}

	svc := newService(repo, nil, nil)

	if _, _, err := svc.List(context.Background(), ports.SubmissionFilter{Limit: 5000, Offset: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 50 {
		t.Errorf("expected clamped limit 50, got %d", got.Limit)
	}
	if got.Offset != 0 {
		t.Errorf("expected offset 0, got %d", got.Offset)
	}
}

func TestFindNearbyRejectsOutOfRange(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newService(repo, nil, nil)

	if _, err := svc.FindNearby(context.Background(), 120.0, 0.0, 500, 10); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestStatsTotalsSeverities(t *testing.T) {
	repo := &mockSubmissionRepo{
		CountBySeverityFunc: func(ctx context.Context) ([]ports.SeverityCount, error) {
			return []ports.SeverityCount{
				{Severity: "High", Count: 3},
				{Severity: "Low", Count: 2},
			}, nil
		},
	}

	svc := newService(repo, nil, nil)

	counts, total, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(counts) != 2 {
		t.Errorf("expected 2 buckets, got %d", len(counts))
	}
}

func TestExportCSVWritesHeaderAndRows(t *testing.T) {
	length := 1.5
	sub, err := domain.Assemble(domain.Fields{
		RoadName:       "Araniko Highway",
		District:       "Bhaktapur",
		RoadType:       "Highway",
		City:           "Bhaktapur",
		DistressType:   "Crack",
		Severity:       "Medium",
		DistressLength: &length,
	}, domain.NewCoordinate(27.671, 85.429), "https://img.example/c.jpg")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	repo := &mockSubmissionRepo{
		ListFunc: func(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error) {
			if filter.Offset > 0 {
				return nil, 1, nil
			}
			return []domain.Submission{*sub}, 1, nil
		},
	}

	svc := newService(repo, nil, nil)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	header := domain.Columns()
	for i, col := range header {
		if records[0][i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}
	if records[1][0] != "Araniko Highway" {
		t.Errorf("unexpected first cell %q", records[1][0])
	}
	if records[1][8] != "27.671000" {
		t.Errorf("unexpected latitude cell %q", records[1][8])
	}
}
