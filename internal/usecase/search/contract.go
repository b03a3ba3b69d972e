package search

import (
	"context"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	"github.com/kailas-cloud/projdex/internal/domain/search/result"
)

// Index defines the retrieval contract against the search index.
type Index interface {
	KNN(
		ctx context.Context, vectorField string, vector []float32,
		k int, filters filter.Expression,
	) ([]result.Hit, error)

	Text(
		ctx context.Context, query string, topK int, filters filter.Expression,
	) ([]result.Hit, error)
}

// Embedder vectorizes the free-text query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
