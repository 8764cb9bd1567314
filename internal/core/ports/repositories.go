package ports

import (
	"context"

	"github.com/samirrijal/roadwatch/internal/core/domain"
)

// SubmissionFilter narrows listing queries.
type SubmissionFilter struct {
	Severity     string
	DistressType string
	Limit        int
	Offset       int
}

// SeverityCount is one bucket of the stats aggregation.
type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// SubmissionRepository persists submissions as append-only rows.
type SubmissionRepository interface {
	Insert(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, int, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Submission, error)
	CountBySeverity(ctx context.Context) ([]SeverityCount, error)
}

// RowAppender mirrors submissions into an external spreadsheet, one row per
// submission, column order matching domain.Columns.
type RowAppender interface {
	EnsureHeader(ctx context.Context) error
	Append(ctx context.Context, row []string) error
}

// ImageStore uploads a photograph and returns a publicly dereferenceable URL.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// CredentialSource resolves named secrets (e.g. the image-host API key).
type CredentialSource interface {
	Credential(ctx context.Context, name string) (string, error)
}
