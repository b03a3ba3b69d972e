package domain

import "context"

// Extraction is the structured report produced by the LLM from a README.
// Field names follow the extraction schema, not the public API shape.
type Extraction struct {
	ProjectName          string   `json:"project_name"`
	ProjectDescription   string   `json:"project_description"`
	ProgrammingLanguages []string `json:"programming_languages"`
	Frameworks           []string `json:"frameworks"`
	AzureServices        []string `json:"azure_services"`
	DesignPatterns       []string `json:"design_patterns"`
	ProjectType          string   `json:"project_type"`
	CodeComplexity       string   `json:"code_complexity"`
	BusinessValue        string   `json:"business_value"`
	TargetAudience       string   `json:"target_audience"`
	Industries           []string `json:"industries"`
}

// Extractor turns README text into a structured extraction report.
type Extractor interface {
	Extract(ctx context.Context, readme string) (Extraction, error)
}

// ReadmeFetcher retrieves README content for a repository URL.
// An empty string means "not found", not an error.
type ReadmeFetcher interface {
	Fetch(ctx context.Context, repoURL string) (string, error)
}

// Notifier sends a review request for a submitted project.
type Notifier interface {
	NotifyReview(ctx context.Context, p Project) error
}
