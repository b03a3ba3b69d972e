package facets

import (
	"context"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// Catalog reads approved records and the tag vocabulary.
type Catalog interface {
	ListByStatus(ctx context.Context, status string) ([]domain.Project, error)
	GetVocabulary(ctx context.Context) (domain.TagVocabulary, error)
	UpsertVocabulary(ctx context.Context, v domain.TagVocabulary) error
}
