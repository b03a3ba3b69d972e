// Package catalog persists project records and the tag vocabulary as
// JSON documents. This store is the record of truth; the search index
// is a projection maintained separately.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/projdex/internal/db"
	"github.com/kailas-cloud/projdex/internal/domain"
)

// pageSize for listing queries over the catalog index.
const pageSize = 100

// store is the consumer interface for catalog documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the catalog repository over a JSON document store.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. prefix namespaces all keys and the
// index name, e.g. "projdex:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Upsert creates or replaces a project record. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, p *domain.Project) (bool, error) {
	key := r.key(p.ID)

	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("marshal project: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a project record by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Project, error) {
	key := r.key(id)

	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	// JSON.GET with a "$" path returns a one-element array.
	var docs []domain.Project
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Project{}, fmt.Errorf("unmarshal project %s: %w", id, err)
	}
	if len(docs) == 0 {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return docs[0], nil
}

// Delete removes a project record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrProjectNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// ListByStatus returns all project records with the given review status,
// paging through the catalog index.
func (r *Repo) ListByStatus(ctx context.Context, status string) ([]domain.Project, error) {
	query := fmt.Sprintf("@partition_key:{%s} @review_status:{%s}", domain.PartitionProject, status)
	return r.listAll(ctx, query)
}

// CountByStatus returns the number of project records with the given status.
func (r *Repo) CountByStatus(ctx context.Context, status string) (int, error) {
	query := fmt.Sprintf("@partition_key:{%s} @review_status:{%s}", domain.PartitionProject, status)
	n, err := r.store.SearchCount(ctx, r.indexName(), query)
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

func (r *Repo) listAll(ctx context.Context, query string) ([]domain.Project, error) {
	var projects []domain.Project

	for offset := 0; ; offset += pageSize {
		result, err := r.store.SearchList(ctx, r.indexName(), query, offset, pageSize, []string{"$"})
		if err != nil {
			return nil, fmt.Errorf("search list: %w", err)
		}
		if result == nil || len(result.Entries) == 0 {
			break
		}

		for _, entry := range result.Entries {
			jsonStr := entry.Fields["$"]
			if jsonStr == "" {
				continue
			}
			var p domain.Project
			if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
				continue
			}
			projects = append(projects, p)
		}

		if len(result.Entries) < pageSize {
			break
		}
	}

	return projects, nil
}

// GetVocabulary returns the tag vocabulary document, or an empty
// vocabulary if it has not been created yet.
func (r *Repo) GetVocabulary(ctx context.Context) (domain.TagVocabulary, error) {
	key := r.key(domain.ApprovedTagsID)

	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.EmptyTagVocabulary(), nil
		}
		return domain.TagVocabulary{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	var docs []domain.TagVocabulary
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.TagVocabulary{}, fmt.Errorf("unmarshal vocabulary: %w", err)
	}
	if len(docs) == 0 {
		return domain.EmptyTagVocabulary(), nil
	}
	return docs[0], nil
}

// UpsertVocabulary replaces the tag vocabulary document. Identity fields
// are forced so a partial payload cannot detach the singleton.
func (r *Repo) UpsertVocabulary(ctx context.Context, v domain.TagVocabulary) error {
	v.ID = domain.ApprovedTagsID
	v.PartitionKey = domain.PartitionMetadata

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal vocabulary: %w", err)
	}

	key := r.key(v.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "catalog:" + id
}

func (r *Repo) indexName() string {
	return r.prefix + "catalog:idx"
}
