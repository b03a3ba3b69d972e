// Package indexer projects approved catalog records into the search
// index: snake_case field projection plus one embedding per narrative
// field. It never mutates the catalog store.
package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/logger"
)

// Service builds and writes search projections.
type Service struct {
	index IndexWriter
	embed Embedder
}

// New creates an indexer service.
func New(index IndexWriter, embed Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Index embeds and upserts the search projection of a record.
// All three embeddings must succeed; a partial-vector document is never
// written. The stored id always wins over the URL-derived one — an id
// mismatch is flagged, not repaired.
func (s *Service) Index(ctx context.Context, rec domain.Project) (domain.SearchDocument, error) {
	log := logger.FromContext(ctx)

	if derived := domain.DocumentID(rec.GithubURL); rec.ID != "" && derived != rec.ID {
		log.Warn("record id does not match github url hash",
			zap.String("id", rec.ID),
			zap.String("derived_id", derived),
			zap.String("github_url", rec.GithubURL),
		)
	}
	id := rec.ID
	if id == "" {
		id = domain.DocumentID(rec.GithubURL)
	}

	if rec.ProjectName == "" || rec.ProjectDescription == "" {
		log.Warn("record missing narrative fields, indexing anyway",
			zap.String("id", id))
	}

	descVec, err := s.embedField(ctx, "description", rec.ProjectDescription)
	if err != nil {
		return domain.SearchDocument{}, err
	}
	valueVec, err := s.embedField(ctx, "business value", rec.BusinessValue)
	if err != nil {
		return domain.SearchDocument{}, err
	}
	audienceVec, err := s.embedField(ctx, "target audience", rec.TargetAudience)
	if err != nil {
		return domain.SearchDocument{}, err
	}

	doc := domain.SearchDocument{
		ID:                   id,
		ProjectName:          rec.ProjectName,
		ProjectDescription:   rec.ProjectDescription,
		GithubURL:            rec.GithubURL,
		Owner:                rec.Owner,
		ProgrammingLanguages: emptyIfNil(rec.ProgrammingLanguages),
		Frameworks:           emptyIfNil(rec.Frameworks),
		AzureServices:        emptyIfNil(rec.AzureServices),
		DesignPatterns:       emptyIfNil(rec.DesignPatterns),
		Industries:           emptyIfNil(rec.Industries),
		Customers:            emptyIfNil(rec.Customers),
		ProjectType:          rec.ProjectType,
		CodeComplexity:       rec.CodeComplexity,
		CodeComplexityRank:   domain.ComplexityRank(rec.CodeComplexity),
		BusinessValue:        rec.BusinessValue,
		TargetAudience:       rec.TargetAudience,
		DescriptionVector:    descVec,
		BusinessValueVector:  valueVec,
		TargetAudienceVector: audienceVec,
	}

	if err := s.index.Upsert(ctx, &doc); err != nil {
		return domain.SearchDocument{}, fmt.Errorf("upsert search doc %s: %w", id, err)
	}
	return doc, nil
}

// Remove deletes an index entry. Used for rejection cleanup; a missing
// entry is not an error.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete search doc %s: %w", id, err)
	}
	return nil
}

func (s *Service) embedField(ctx context.Context, name, text string) ([]float32, error) {
	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}
	return res.Embedding, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
