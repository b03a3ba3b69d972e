package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/projdex/internal/db"
)

// EnsureIndex creates the catalog FT index if it does not exist yet.
// The index only covers the discriminator fields used by listing queries;
// records are fetched whole via RETURN $.
func (r *Repo) EnsureIndex(ctx context.Context, mgr db.IndexManager) error {
	def := &db.IndexDefinition{
		Name:        r.indexName(),
		StorageType: db.StorageJSON,
		Prefixes:    []string{r.prefix + "catalog:"},
		Fields: []db.IndexField{
			{Name: "$.partitionKey", Alias: "partition_key", Type: db.IndexFieldTag},
			{Name: "$.reviewStatus", Alias: "review_status", Type: db.IndexFieldTag},
		},
	}

	if err := mgr.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create catalog index: %w", err)
	}
	return nil
}
