package intake

import (
	"context"

	"github.com/kailas-cloud/projdex/internal/domain"
)

// ReadmeFetcher retrieves README content for a repository URL.
// An empty string means the repository has no README on its default
// branches; that is not an error at this layer.
type ReadmeFetcher interface {
	Fetch(ctx context.Context, repoURL string) (string, error)
}

// Extractor turns README text into a structured extraction report.
type Extractor interface {
	Extract(ctx context.Context, readme string) (domain.Extraction, error)
}
