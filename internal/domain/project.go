package domain

import (
	"crypto/md5" //nolint:gosec // identity hash, not a security boundary
	"encoding/hex"
)

// Review status of a submitted project. Rejection deletes the record,
// so there is no rejected status.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Partition discriminators separating project documents from metadata
// documents in the catalog store.
const (
	PartitionProject  = "project"
	PartitionMetadata = "metadata"
)

// Project types.
const (
	TypeEducational = "Educational/Demo"
	TypeAccelerator = "Accelerator"
)

// Code complexity levels, in rank order.
var ComplexityLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Project is the canonical catalog record. It is the record of truth;
// the search index only ever holds a projection of an approved Project.
type Project struct {
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
	ReviewStatus         string   `json:"reviewStatus"`
	PartitionKey         string   `json:"partitionKey"`
}

// DocumentID derives the stable document identity from a repository URL.
// The same URL always yields the same id, so re-submitting a repository
// updates the existing record instead of duplicating it. The id is shared
// between the catalog store and the search index.
func DocumentID(githubURL string) string {
	sum := md5.Sum([]byte(githubURL)) //nolint:gosec // deterministic identity, not auth
	return hex.EncodeToString(sum[:])
}

// ComplexityRank maps a complexity level to its numeric rank (1..3).
// Unknown levels rank 0 so they sort before Beginner.
func ComplexityRank(level string) int {
	for i, l := range ComplexityLevels {
		if l == level {
			return i + 1
		}
	}
	return 0
}

// Normalize fills identity and partition fields derived from the record
// itself: id from the GitHub URL, empty owner to "anonymous", and the
// project partition key. Tag slices stay nil-safe for JSON marshaling.
func (p *Project) Normalize() {
	p.ID = DocumentID(p.GithubURL)
	if p.Owner == "" {
		p.Owner = "anonymous"
	}
	p.PartitionKey = PartitionProject
	p.ProgrammingLanguages = emptyIfNil(p.ProgrammingLanguages)
	p.Frameworks = emptyIfNil(p.Frameworks)
	p.AzureServices = emptyIfNil(p.AzureServices)
	p.DesignPatterns = emptyIfNil(p.DesignPatterns)
	p.Industries = emptyIfNil(p.Industries)
	p.Customers = emptyIfNil(p.Customers)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
