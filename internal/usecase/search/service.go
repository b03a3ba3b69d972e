// Package search implements the hybrid query engine: query embedding,
// filter-constrained KNN + BM25 retrieval, RRF fusion, and projection
// to the public result shape.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	"github.com/kailas-cloud/projdex/internal/domain/search/result"
)

// Sort keys accepted by Search. Anything else is ignored.
const (
	SortComplexityAsc  = "complexity_asc"
	SortComplexityDesc = "complexity_desc"
)

// Options tune retrieval behavior.
type Options struct {
	// VectorField is the index vector field KNN runs against.
	VectorField string
	// KNNNeighbors is the k of the KNN stage.
	KNNNeighbors int
	// Window caps the fused result list.
	Window int
	// SingleSelect controls multi-selection on single-valued facets.
	SingleSelect filter.SingleSelectMode
}

// Service executes catalog searches.
type Service struct {
	index Index
	embed Embedder
	opts  Options
}

// New creates a search service.
func New(index Index, embed Embedder, opts Options) *Service {
	return &Service{index: index, embed: embed, opts: opts}
}

// ProjectResult is the public camelCase projection of a search hit.
// Absent fields are empty strings or lists, never null.
type ProjectResult struct {
	ID                   string   `json:"id"`
	ProjectName          string   `json:"projectName"`
	ProjectDescription   string   `json:"projectDescription"`
	GithubURL            string   `json:"githubUrl"`
	Owner                string   `json:"owner"`
	ProgrammingLanguages []string `json:"programmingLanguages"`
	Frameworks           []string `json:"frameworks"`
	AzureServices        []string `json:"azureServices"`
	DesignPatterns       []string `json:"designPatterns"`
	Industries           []string `json:"industries"`
	Customers            []string `json:"customers"`
	ProjectType          string   `json:"projectType"`
	CodeComplexity       string   `json:"codeComplexity"`
	BusinessValue        string   `json:"businessValue"`
	TargetAudience       string   `json:"targetAudience"`
	Score                float64  `json:"score"`
}

// Search runs the hybrid retrieval pipeline. A blank query matches
// everything, constrained only by the facet selection.
func (s *Service) Search(
	ctx context.Context, query string, selection filter.Selection, sortBy string,
) ([]ProjectResult, error) {
	textQuery := strings.TrimSpace(query)
	if textQuery == "" {
		textQuery = "*"
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	filters := filter.Build(selection, s.opts.SingleSelect)

	knnHits, err := s.index.KNN(ctx, s.opts.VectorField, emb.Embedding, s.opts.KNNNeighbors, filters)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	textHits, err := s.index.Text(ctx, textQuery, s.opts.Window, filters)
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}

	fused := fuseRRF(knnHits, textHits, s.opts.Window)
	applySort(fused, sortBy)

	results := make([]ProjectResult, 0, len(fused))
	for _, h := range fused {
		results = append(results, toProjectResult(h))
	}
	return results, nil
}

// applySort reorders fused hits for the supported sort keys. Fusion
// order already reflects relevance, so unknown keys leave it alone.
func applySort(hits []result.Hit, sortBy string) {
	switch sortBy {
	case SortComplexityAsc:
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Doc.CodeComplexityRank < hits[j].Doc.CodeComplexityRank
		})
	case SortComplexityDesc:
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Doc.CodeComplexityRank > hits[j].Doc.CodeComplexityRank
		})
	}
}

func toProjectResult(h result.Hit) ProjectResult {
	d := h.Doc
	return ProjectResult{
		ID:                   d.ID,
		ProjectName:          d.ProjectName,
		ProjectDescription:   d.ProjectDescription,
		GithubURL:            d.GithubURL,
		Owner:                d.Owner,
		ProgrammingLanguages: emptyIfNil(d.ProgrammingLanguages),
		Frameworks:           emptyIfNil(d.Frameworks),
		AzureServices:        emptyIfNil(d.AzureServices),
		DesignPatterns:       emptyIfNil(d.DesignPatterns),
		Industries:           emptyIfNil(d.Industries),
		Customers:            emptyIfNil(d.Customers),
		ProjectType:          d.ProjectType,
		CodeComplexity:       d.CodeComplexity,
		BusinessValue:        d.BusinessValue,
		TargetAudience:       d.TargetAudience,
		Score:                h.Score,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
