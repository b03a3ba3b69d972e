package domain

// ApprovedTagsID is the id of the singleton vocabulary document.
const ApprovedTagsID = "approved_tags"

// TagVocabulary is the curated set of legal tag values per facet, plus a
// service-to-category mapping used to group services in the UI. Lives as a
// single metadata document in the catalog store. Tags on approved projects
// that are missing from the vocabulary are excluded from public filter
// options but never rejected on the project itself.
type TagVocabulary struct {
	ID                   string              `json:"id"`
	PartitionKey         string              `json:"partitionKey"`
	ProgrammingLanguages []string            `json:"programming_languages"`
	Frameworks           []string            `json:"frameworks"`
	AzureServices        []string            `json:"azure_services"`
	DesignPatterns       []string            `json:"design_patterns"`
	Industries           []string            `json:"industries"`
	ProjectTypes         []string            `json:"project_types"`
	AzureServiceMapping  map[string][]string `json:"azure_service_mapping"`
}

// EmptyTagVocabulary returns a vocabulary with identity fields set and all
// facets empty, used when the document has not been created yet.
func EmptyTagVocabulary() TagVocabulary {
	return TagVocabulary{
		ID:                   ApprovedTagsID,
		PartitionKey:         PartitionMetadata,
		ProgrammingLanguages: []string{},
		Frameworks:           []string{},
		AzureServices:        []string{},
		DesignPatterns:       []string{},
		Industries:           []string{},
		ProjectTypes:         []string{},
		AzureServiceMapping:  map[string][]string{},
	}
}

// FilterOptions is the public listing of selectable facet values, derived
// from approved projects cross-checked against the vocabulary.
type FilterOptions struct {
	ProgrammingLanguages   []string            `json:"programmingLanguages"`
	Frameworks             []string            `json:"frameworks"`
	AzureServices          []string            `json:"azureServices"`
	AzureServiceCategories map[string][]string `json:"azureServiceCategories"`
	DesignPatterns         []string            `json:"designPatterns"`
	Industries             []string            `json:"industries"`
	ProjectTypes           []string            `json:"projectTypes"`
	CodeComplexities       []string            `json:"codeComplexities"`
	Customers              []string            `json:"customers"`
}
