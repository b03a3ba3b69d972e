// Package result defines the retrieval candidate shape shared between
// the search index repository and the query engine.
package result

import "github.com/kailas-cloud/projdex/internal/domain"

// Hit is one retrieval candidate: the stored non-vector projection of a
// document plus the engine score of the ranking it came from.
type Hit struct {
	Doc   domain.SearchDocument
	Score float64
}
