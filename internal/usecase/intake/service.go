// Package intake turns a submitted GitHub URL into a draft project
// record: README fetch, LLM extraction, identity attribution. The
// draft goes back to the user for editing; nothing is persisted here.
package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// Service builds draft records from repository URLs.
type Service struct {
	readme  ReadmeFetcher
	extract Extractor
}

// New creates an intake service.
func New(readme ReadmeFetcher, extract Extractor) *Service {
	return &Service{readme: readme, extract: extract}
}

// SubmitRepo fetches the README, extracts metadata and returns a draft
// record attributed to owner. owner may be empty; the record then
// defaults to "anonymous".
func (s *Service) SubmitRepo(ctx context.Context, repoURL, owner string) (domain.Project, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return domain.Project{}, fmt.Errorf("%w: github url is required", domain.ErrInvalidInput)
	}

	readme, err := s.readme.Fetch(ctx, repoURL)
	if err != nil {
		return domain.Project{}, fmt.Errorf("fetch readme: %w", err)
	}
	if strings.TrimSpace(readme) == "" {
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrReadmeNotFound, repoURL)
	}

	ext, err := s.extract.Extract(ctx, readme)
	if err != nil {
		return domain.Project{}, fmt.Errorf("extract metadata: %w", err)
	}

	draft := domain.Project{
		ProjectName:          ext.ProjectName,
		ProjectDescription:   ext.ProjectDescription,
		GithubURL:            repoURL,
		Owner:                owner,
		ProgrammingLanguages: ext.ProgrammingLanguages,
		Frameworks:           ext.Frameworks,
		AzureServices:        ext.AzureServices,
		DesignPatterns:       ext.DesignPatterns,
		Industries:           ext.Industries,
		ProjectType:          ext.ProjectType,
		CodeComplexity:       ext.CodeComplexity,
		BusinessValue:        ext.BusinessValue,
		TargetAudience:       ext.TargetAudience,
		ReviewStatus:         domain.StatusPending,
	}
	draft.Normalize()
	return draft, nil
}
