// Package facets derives the public filter options from approved
// records and manages the curated tag vocabulary.
package facets

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// Service computes filter options and manages the vocabulary.
type Service struct {
	catalog Catalog
}

// New creates a facets service.
func New(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// FilterOptions lists the selectable facet values: distinct tags of
// approved projects cross-checked against the vocabulary. A tag an
// admin never approved stays invisible to end users even when some
// record carries it. Customers and project types are listed as found;
// complexity is the full fixed scale.
func (s *Service) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	vocab, err := s.catalog.GetVocabulary(ctx)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("load vocabulary: %w", err)
	}

	approved, err := s.catalog.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("list approved: %w", err)
	}

	languages := newCollector(vocab.ProgrammingLanguages)
	frameworks := newCollector(vocab.Frameworks)
	services := newCollector(vocab.AzureServices)
	patterns := newCollector(vocab.DesignPatterns)
	industries := newCollector(vocab.Industries)
	customers := newCollector(nil) // deliberately unchecked
	projectTypes := newCollector(nil)

	for _, p := range approved {
		languages.addAll(p.ProgrammingLanguages)
		frameworks.addAll(p.Frameworks)
		services.addAll(p.AzureServices)
		patterns.addAll(p.DesignPatterns)
		industries.addAll(p.Industries)
		customers.addAll(p.Customers)
		projectTypes.add(p.ProjectType)
	}

	opts := domain.FilterOptions{
		ProgrammingLanguages:   languages.sorted(),
		Frameworks:             frameworks.sorted(),
		AzureServices:          services.sorted(),
		AzureServiceCategories: categorize(services.sorted(), vocab.AzureServiceMapping),
		DesignPatterns:         patterns.sorted(),
		Industries:             industries.sorted(),
		ProjectTypes:           projectTypes.sorted(),
		CodeComplexities:       append([]string{}, domain.ComplexityLevels...),
		Customers:              customers.sorted(),
	}
	return opts, nil
}

// ApprovedTags returns the curated vocabulary document.
func (s *Service) ApprovedTags(ctx context.Context) (domain.TagVocabulary, error) {
	vocab, err := s.catalog.GetVocabulary(ctx)
	if err != nil {
		return domain.TagVocabulary{}, fmt.Errorf("load vocabulary: %w", err)
	}
	return vocab, nil
}

// UpdateApprovedTags replaces the vocabulary document.
func (s *Service) UpdateApprovedTags(ctx context.Context, v domain.TagVocabulary) error {
	if err := s.catalog.UpsertVocabulary(ctx, v); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

// collector gathers distinct non-empty values, optionally restricted to
// an allowed set. A nil allowed set means no restriction.
type collector struct {
	allowed map[string]bool
	seen    map[string]bool
}

func newCollector(allowedValues []string) *collector {
	c := &collector{seen: make(map[string]bool)}
	if allowedValues != nil {
		c.allowed = make(map[string]bool, len(allowedValues))
		for _, v := range allowedValues {
			c.allowed[v] = true
		}
	}
	return c
}

func (c *collector) add(v string) {
	if v == "" {
		return
	}
	if c.allowed != nil && !c.allowed[v] {
		return
	}
	c.seen[v] = true
}

func (c *collector) addAll(values []string) {
	for _, v := range values {
		c.add(v)
	}
}

func (c *collector) sorted() []string {
	out := make([]string, 0, len(c.seen))
	for v := range c.seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// categorize groups services by their vocabulary categories; services
// without a mapping fall under "Other".
func categorize(services []string, mapping map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, svc := range services {
		categories := mapping[svc]
		if len(categories) == 0 {
			categories = []string{"Other"}
		}
		for _, cat := range categories {
			out[cat] = append(out[cat], svc)
		}
	}
	for cat := range out {
		sort.Strings(out[cat])
	}
	return out
}
