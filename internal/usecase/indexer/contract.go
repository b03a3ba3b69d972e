package indexer

import (
	"context"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// IndexWriter writes and removes search index projections.
type IndexWriter interface {
	Upsert(ctx context.Context, doc *domain.SearchDocument) error
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes narrative fields of a record.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
