package searchindex

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// Backend field names of the search index schema.
const (
	FieldProjectName          = "project_name"
	FieldProjectDescription   = "project_description"
	FieldGithubURL            = "github_url"
	FieldOwner                = "owner"
	FieldProgrammingLanguages = "programming_languages"
	FieldFrameworks           = "frameworks"
	FieldAzureServices        = "azure_services"
	FieldDesignPatterns       = "design_patterns"
	FieldIndustries           = "industries"
	FieldCustomers            = "customers"
	FieldProjectType          = "project_type"
	FieldCodeComplexity       = "code_complexity"
	FieldCodeComplexityRank   = "code_complexity_rank"
	FieldBusinessValue        = "business_value"
	FieldTargetAudience       = "target_audience"

	FieldDescriptionVector    = "description_vector"
	FieldBusinessValueVector  = "business_value_vector"
	FieldTargetAudienceVector = "target_audience_vector"
)

// tagJoin separates multi-valued tag fields inside a hash value. Must
// match the SEPARATOR declared on the TAG fields in the index schema.
const tagJoin = ","

// returnFields lists everything a search should fetch back: all stored
// fields except the vectors.
var returnFields = []string{
	FieldProjectName,
	FieldProjectDescription,
	FieldGithubURL,
	FieldOwner,
	FieldProgrammingLanguages,
	FieldFrameworks,
	FieldAzureServices,
	FieldDesignPatterns,
	FieldIndustries,
	FieldCustomers,
	FieldProjectType,
	FieldCodeComplexity,
	FieldCodeComplexityRank,
	FieldBusinessValue,
	FieldTargetAudience,
}

// buildHashFields flattens a search document into HSET field/value pairs.
func buildHashFields(doc *domain.SearchDocument) map[string]string {
	return map[string]string{
		FieldProjectName:          doc.ProjectName,
		FieldProjectDescription:   doc.ProjectDescription,
		FieldGithubURL:            doc.GithubURL,
		FieldOwner:                doc.Owner,
		FieldProgrammingLanguages: strings.Join(doc.ProgrammingLanguages, tagJoin),
		FieldFrameworks:           strings.Join(doc.Frameworks, tagJoin),
		FieldAzureServices:        strings.Join(doc.AzureServices, tagJoin),
		FieldDesignPatterns:       strings.Join(doc.DesignPatterns, tagJoin),
		FieldIndustries:           strings.Join(doc.Industries, tagJoin),
		FieldCustomers:            strings.Join(doc.Customers, tagJoin),
		FieldProjectType:          doc.ProjectType,
		FieldCodeComplexity:       doc.CodeComplexity,
		FieldCodeComplexityRank:   strconv.Itoa(doc.CodeComplexityRank),
		FieldBusinessValue:        doc.BusinessValue,
		FieldTargetAudience:       doc.TargetAudience,

		FieldDescriptionVector:    vectorToBytes(doc.DescriptionVector),
		FieldBusinessValueVector:  vectorToBytes(doc.BusinessValueVector),
		FieldTargetAudienceVector: vectorToBytes(doc.TargetAudienceVector),
	}
}

// parseHashFields reconstructs the non-vector projection from a hash.
func parseHashFields(id string, m map[string]string) domain.SearchDocument {
	rank, _ := strconv.Atoi(m[FieldCodeComplexityRank])
	return domain.SearchDocument{
		ID:                   id,
		ProjectName:          m[FieldProjectName],
		ProjectDescription:   m[FieldProjectDescription],
		GithubURL:            m[FieldGithubURL],
		Owner:                m[FieldOwner],
		ProgrammingLanguages: splitTags(m[FieldProgrammingLanguages]),
		Frameworks:           splitTags(m[FieldFrameworks]),
		AzureServices:        splitTags(m[FieldAzureServices]),
		DesignPatterns:       splitTags(m[FieldDesignPatterns]),
		Industries:           splitTags(m[FieldIndustries]),
		Customers:            splitTags(m[FieldCustomers]),
		ProjectType:          m[FieldProjectType],
		CodeComplexity:       m[FieldCodeComplexity],
		CodeComplexityRank:   rank,
		BusinessValue:        m[FieldBusinessValue],
		TargetAudience:       m[FieldTargetAudience],
	}
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, tagJoin)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
