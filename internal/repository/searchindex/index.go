package searchindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/projdex/internal/db"
)

// EnsureIndex creates the search FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, mgr db.IndexManager) error {
	def := r.indexDefinition()

	if err := mgr.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

func (r *Repo) indexDefinition() *db.IndexDefinition {
	def := &db.IndexDefinition{
		Name:        r.indexName(),
		StorageType: db.StorageHash,
		Prefixes:    []string{r.prefix + "search:"},
	}

	// Faceted TAG fields; multi-valued ones are comma-joined in the hash.
	for _, name := range []string{
		FieldProgrammingLanguages,
		FieldFrameworks,
		FieldAzureServices,
		FieldDesignPatterns,
		FieldIndustries,
		FieldCustomers,
	} {
		def.Fields = append(def.Fields, db.IndexField{
			Name:         name,
			Type:         db.IndexFieldTag,
			TagSeparator: tagJoin,
		})
	}
	for _, name := range []string{FieldProjectType, FieldCodeComplexity, FieldOwner} {
		def.Fields = append(def.Fields, db.IndexField{
			Name: name,
			Type: db.IndexFieldTag,
		})
	}

	// TEXT fields feed BM25 keyword retrieval.
	for _, name := range []string{
		FieldProjectName,
		FieldProjectDescription,
		FieldBusinessValue,
		FieldTargetAudience,
	} {
		def.Fields = append(def.Fields, db.IndexField{
			Name: name,
			Type: db.IndexFieldText,
		})
	}

	def.Fields = append(def.Fields, db.IndexField{
		Name: FieldCodeComplexityRank,
		Type: db.IndexFieldNumeric,
	})

	for _, name := range []string{
		FieldDescriptionVector,
		FieldBusinessValueVector,
		FieldTargetAudienceVector,
	} {
		def.Fields = append(def.Fields, db.IndexField{
			Name:              name,
			Type:              db.IndexFieldVector,
			VectorAlgo:        db.VectorHNSW,
			VectorDim:         r.dim,
			VectorDistance:    db.DistanceCosine,
			VectorM:           r.hnswM,
			VectorEFConstruct: r.hnswEF,
		})
	}

	return def
}
