package review

import (
	"context"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// Catalog is the record-of-truth store for project records.
type Catalog interface {
	Upsert(ctx context.Context, p *domain.Project) (bool, error)
	Get(ctx context.Context, id string) (domain.Project, error)
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status string) ([]domain.Project, error)
}

// Indexer maintains the search projection of approved records.
type Indexer interface {
	Index(ctx context.Context, rec domain.Project) (domain.SearchDocument, error)
	Remove(ctx context.Context, id string) error
}

// Notifier tells reviewers about a new submission.
type Notifier interface {
	NotifyReview(ctx context.Context, p domain.Project) error
}
