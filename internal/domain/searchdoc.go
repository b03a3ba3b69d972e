package domain

// SearchDocument is the write-only projection of an approved Project that
// lives in the search index, with backend snake_case field names and one
// embedding per searchable narrative field. It is never read back as the
// source of truth; the catalog store is.
type SearchDocument struct {
	ID                   string
	ProjectName          string
	ProjectDescription   string
	GithubURL            string
	Owner                string
	ProgrammingLanguages []string
	Frameworks           []string
	AzureServices        []string
	DesignPatterns       []string
	Industries           []string
	Customers            []string
	ProjectType          string
	CodeComplexity       string
	CodeComplexityRank   int
	BusinessValue        string
	TargetAudience       string

	DescriptionVector    []float32
	BusinessValueVector  []float32
	TargetAudienceVector []float32
}
