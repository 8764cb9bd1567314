package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/core/ports"
	"github.com/samirrijal/roadwatch/internal/pkg/geospatial"
)

// SubmissionRepo implements ports.SubmissionRepository with pgx. Rows are
// append-only; there is no update or delete path.
type SubmissionRepo struct {
	db *DB
}

// NewSubmissionRepo creates a new SubmissionRepo.
func NewSubmissionRepo(db *DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

const submissionColumns = `
	id, road_name, district, road_type, COALESCE(city, ''),
	distress_type, severity, distress_length_m, distress_width_m,
	lat, lon, COALESCE(notes, ''), COALESCE(image_url, ''), created_at`

// Insert appends one submission and fills in its generated ID and timestamp.
func (r *SubmissionRepo) Insert(ctx context.Context, s *domain.Submission) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO submissions (
			road_name, district, road_type, city,
			distress_type, severity, distress_length_m, distress_width_m,
			lat, lon, notes, image_url
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''))
		RETURNING id, created_at
	`, s.Fields.RoadName, s.Fields.District, s.Fields.RoadType, s.Fields.City,
		s.Fields.DistressType, s.Fields.Severity,
		s.Fields.DistressLength, s.Fields.DistressWidth,
		s.Location.Lat, s.Location.Lon,
		s.Fields.Notes, s.ImageURL,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID returns a submission by UUID.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	var s domain.Submission
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id,
	).Scan(
		&s.ID, &s.Fields.RoadName, &s.Fields.District, &s.Fields.RoadType, &s.Fields.City,
		&s.Fields.DistressType, &s.Fields.Severity,
		&s.Fields.DistressLength, &s.Fields.DistressWidth,
		&s.Location.Lat, &s.Location.Lon,
		&s.Fields.Notes, &s.ImageURL, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns submissions matching the filter, newest first, plus the total
// count before paging.
func (r *SubmissionRepo) List(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, int, error) {
	where := ` WHERE ($1 = '' OR severity = $1) AND ($2 = '' OR distress_type = $2)`

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions`+where,
		filter.Severity, filter.DistressType,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		filter.Severity, filter.DistressType, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// FindNearby returns submissions within radiusMeters of the given point.
// A bounding box narrows the scan in SQL; the exact great-circle distance
// filters the survivors.
func (r *SubmissionRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Submission, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4
		ORDER BY created_at DESC`,
		minLat, maxLat, minLon, maxLon,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}

	var subs []domain.Submission
	for _, s := range candidates {
		sLat, sLon, ok := s.Location.Point()
		if !ok {
			continue
		}
		if geospatial.Haversine(lat, lon, sLat, sLon) <= radiusMeters {
			subs = append(subs, s)
			if len(subs) == limit {
				break
			}
		}
	}
	return subs, nil
}

// CountBySeverity returns the severity breakdown, most frequent first.
func (r *SubmissionRepo) CountBySeverity(ctx context.Context) ([]ports.SeverityCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT severity, COUNT(*)
		FROM submissions
		GROUP BY severity
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ports.SeverityCount
	for rows.Next() {
		var c ports.SeverityCount
		if err := rows.Scan(&c.Severity, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSubmissions(rows rowScanner) ([]domain.Submission, error) {
	var subs []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(
			&s.ID, &s.Fields.RoadName, &s.Fields.District, &s.Fields.RoadType, &s.Fields.City,
			&s.Fields.DistressType, &s.Fields.Severity,
			&s.Fields.DistressLength, &s.Fields.DistressWidth,
			&s.Location.Lat, &s.Location.Lon,
			&s.Fields.Notes, &s.ImageURL, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
