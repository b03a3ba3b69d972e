// Package searchindex maintains the hash-based search projection of
// approved projects: tag facets, BM25 text fields and one vector per
// narrative field.
package searchindex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/projdex/internal/db"
	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	"github.com/kailas-cloud/projdex/internal/domain/search/result"
)

// store is the consumer interface for search documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the search index repository over a hash store.
type Repo struct {
	store  store
	prefix string
	dim    int
	hnswM  int
	hnswEF int
}

// New creates a search index repository. dim is the embedding dimension
// the vector fields are declared with.
func New(s store, prefix string, dim, hnswM, hnswEF int) *Repo {
	return &Repo{store: s, prefix: prefix, dim: dim, hnswM: hnswM, hnswEF: hnswEF}
}

// Upsert writes the full search projection of a document. Vectors must
// already match the declared dimension or KNN queries will skip the doc.
func (r *Repo) Upsert(ctx context.Context, doc *domain.SearchDocument) error {
	key := r.key(doc.ID)
	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a document from the index. Missing documents are not an
// error: removal is invoked opportunistically during rejection cleanup.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return nil
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a document is present in the index.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", r.key(id), err)
	}
	return ok, nil
}

// KNN runs a vector similarity search over the given vector field.
func (r *Repo) KNN(
	ctx context.Context, vectorField string, vector []float32, k int, filters filter.Expression,
) ([]result.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		VectorField:  vectorField,
		Vector:       vector,
		K:            k,
		Filters:      filters,
		ReturnFields: returnFields,
	}

	res, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return r.toHits(res), nil
}

// Text runs a BM25 full-text search over the index TEXT fields.
func (r *Repo) Text(
	ctx context.Context, query string, topK int, filters filter.Expression,
) ([]result.Hit, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName(),
		Query:        query,
		Filters:      filters,
		TopK:         topK,
		ReturnFields: returnFields,
	}

	res, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return r.toHits(res), nil
}

func (r *Repo) toHits(res *db.SearchResult) []result.Hit {
	hits := make([]result.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, result.Hit{
			Doc:   parseHashFields(r.extractID(e.Key), e.Fields),
			Score: e.Score,
		})
	}
	return hits
}

func (r *Repo) key(id string) string {
	return r.prefix + "search:" + id
}

func (r *Repo) indexName() string {
	return r.prefix + "search:idx"
}

func (r *Repo) extractID(key string) string {
	prefix := r.prefix + "search:"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
