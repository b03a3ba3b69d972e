package search

import (
	"sort"

	"github.com/kailas-cloud/projdex/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges KNN and BM25 rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a document appears in both lists, the KNN projection is kept.
func fuseRRF(knn, bm25 []result.Hit, window int) []result.Hit {
	type scored struct {
		hit   result.Hit
		score float64
	}

	merged := make(map[string]*scored)
	order := make([]string, 0, len(knn)+len(bm25))

	for rank, h := range knn {
		s := 1.0 / float64(rrfK+rank+1)
		merged[h.Doc.ID] = &scored{hit: h, score: s}
		order = append(order, h.Doc.ID)
	}

	for rank, h := range bm25 {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[h.Doc.ID]; ok {
			existing.score += s
		} else {
			merged[h.Doc.ID] = &scored{hit: h, score: s}
			order = append(order, h.Doc.ID)
		}
	}

	fused := make([]result.Hit, 0, len(merged))
	for _, id := range order {
		s := merged[id]
		fused = append(fused, result.Hit{Doc: s.hit.Doc, Score: s.score})
	}

	// Stable so ties keep insertion order (KNN list first).
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	if len(fused) > window {
		fused = fused[:window]
	}

	return fused
}
