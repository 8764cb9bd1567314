package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/core/ports"
	"github.com/samirrijal/roadwatch/internal/pkg/metrics"
)

// DeviceReading is an explicit decimal position supplied by the client,
// either typed in manually or taken from the device location sensor.
type DeviceReading struct {
	Lat      float64
	Lon      float64
	Accuracy *float64 // meters; nil for manual entry
}

// CreateSubmissionInput carries everything one submission attempt provides.
type CreateSubmissionInput struct {
	Fields    domain.Fields
	Reading   *DeviceReading // takes precedence over photo EXIF
	Photo     []byte
	PhotoName string
}

// SubmissionService owns the submission pipeline: validate, upload the
// photo, resolve the coordinate, assemble, persist, publish.
type SubmissionService struct {
	repo      ports.SubmissionRepository
	images    ports.ImageStore
	events    ports.EventPublisher
	cache     ports.CacheService
	locations *LocationService
}

// NewSubmissionService creates a new SubmissionService. images, events, and
// cache may be nil; the pipeline degrades rather than refusing submissions.
func NewSubmissionService(
	repo ports.SubmissionRepository,
	images ports.ImageStore,
	events ports.EventPublisher,
	cache ports.CacheService,
	locations *LocationService,
) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		images:    images,
		events:    events,
		cache:     cache,
		locations: locations,
	}
}

// Create runs one submission attempt. Field validation happens before any
// side-effecting step; a validation failure therefore leaves no trace in
// storage or on the image host.
func (s *SubmissionService) Create(ctx context.Context, in CreateSubmissionInput) (*domain.Submission, error) {
	if err := in.Fields.Validate(); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			metrics.SubmissionsRejected.WithLabelValues(verr.Code).Inc()
		}
		return nil, err
	}

	var imageURL string
	if len(in.Photo) > 0 && s.images != nil {
		url, err := s.images.Upload(ctx, in.PhotoName, in.Photo)
		if err != nil {
			// The report is still worth keeping without its photo.
			metrics.ImageUploads.WithLabelValues("error").Inc()
			slog.Warn("image upload failed, submitting without photo", "error", err)
		} else {
			metrics.ImageUploads.WithLabelValues("ok").Inc()
			imageURL = url
		}
	}

	coord, err := s.resolveLocation(in)
	if err != nil {
		return nil, err
	}

	sub, err := domain.Assemble(in.Fields, coord, imageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	metrics.SubmissionsAccepted.Inc()

	if s.events != nil {
		if err := s.events.PublishSubmission(ctx, sub); err != nil {
			slog.Warn("publish submission event failed", "id", sub.ID, "error", err)
		}
	}
	return sub, nil
}

// resolveLocation prefers an explicit reading over photo metadata. An
// out-of-range explicit reading is a caller error; unusable photo tags
// degrade silently to an absent coordinate.
func (s *SubmissionService) resolveLocation(in CreateSubmissionInput) (domain.Coordinate, error) {
	if in.Reading != nil {
		if in.Reading.Accuracy != nil {
			return s.locations.FromDeviceSensor(in.Reading.Lat, in.Reading.Lon, *in.Reading.Accuracy)
		}
		return s.locations.FromManual(in.Reading.Lat, in.Reading.Lon)
	}
	if len(in.Photo) > 0 {
		return s.locations.FromPhoto(bytes.NewReader(in.Photo))
	}
	return domain.Coordinate{}, nil
}

// LocateFromPhoto extracts a coordinate from photo metadata without
// creating a submission (the form's preview step).
func (s *SubmissionService) LocateFromPhoto(ctx context.Context, photo []byte) (domain.Coordinate, error) {
	return s.locations.FromPhoto(bytes.NewReader(photo))
}

// GetByID returns a single submission.
func (s *SubmissionService) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	cacheKey := "submissions:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("submission_get").Inc()
			var sub domain.Submission
			if err := json.Unmarshal(data, &sub); err == nil {
				return &sub, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("submission_get").Inc()
		}
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Rows are append-only, so a long TTL is safe.
	if s.cache != nil {
		if data, err := json.Marshal(sub); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return sub, nil
}

// List returns submissions with the filter's limit clamped to 100.
func (s *SubmissionService) List(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// FindNearby returns submissions within radiusMeters of the given point.
func (s *SubmissionService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if !domain.NewCoordinate(lat, lon).InRange() {
		return nil, fmt.Errorf("coordinate out of range: %.6f, %.6f", lat, lon)
	}

	cacheKey := fmt.Sprintf("submissions:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("submission_nearby").Inc()
			var subs []domain.Submission
			if err := json.Unmarshal(data, &subs); err == nil {
				return subs, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("submission_nearby").Inc()
		}
	}

	subs, err := s.repo.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(subs); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return subs, nil
}

// Stats returns the severity breakdown and total count.
func (s *SubmissionService) Stats(ctx context.Context) ([]ports.SeverityCount, int, error) {
	counts, err := s.repo.CountBySeverity(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return counts, total, nil
}

// ExportCSV streams every submission as CSV in the fixed 12-column schema,
// header row first.
func (s *SubmissionService) ExportCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns()); err != nil {
		return err
	}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		subs, _, err := s.repo.List(ctx, ports.SubmissionFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}
		for i := range subs {
			if err := cw.Write(subs[i].Row()); err != nil {
				return err
			}
		}
		if len(subs) < pageSize {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}
