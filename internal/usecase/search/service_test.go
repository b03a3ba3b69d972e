package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	"github.com/kailas-cloud/projdex/internal/domain/search/result"
)

type mockIndex struct {
	knnFn func(
		ctx context.Context, vectorField string, vector []float32,
		k int, filters filter.Expression,
	) ([]result.Hit, error)
	textFn func(
		ctx context.Context, query string, topK int, filters filter.Expression,
	) ([]result.Hit, error)
}

func (m *mockIndex) KNN(
	ctx context.Context, vectorField string, vector []float32,
	k int, filters filter.Expression,
) ([]result.Hit, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, vectorField, vector, k, filters)
	}
	return nil, nil
}

func (m *mockIndex) Text(
	ctx context.Context, query string, topK int, filters filter.Expression,
) ([]result.Hit, error) {
	if m.textFn != nil {
		return m.textFn(ctx, query, topK, filters)
	}
	return nil, nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func testOptions() Options {
	return Options{
		VectorField:  "description_vector",
		KNNNeighbors: 3,
		Window:       8,
		SingleSelect: filter.SingleSelectFirst,
	}
}

func hit(id string, score float64, rank int) result.Hit {
	return result.Hit{
		Doc: domain.SearchDocument{
			ID:                 id,
			ProjectName:        "p-" + id,
			CodeComplexityRank: rank,
		},
		Score: score,
	}
}

func TestSearch_BlankQueryUsesWildcardText(t *testing.T) {
	idx := &mockIndex{}
	var gotText string
	idx.textFn = func(_ context.Context, query string, _ int, _ filter.Expression) ([]result.Hit, error) {
		gotText = query
		return nil, nil
	}

	svc := New(idx, &mockEmbedder{}, testOptions())
	_, err := svc.Search(context.Background(), "   ", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotText != "*" {
		t.Errorf("expected wildcard text query, got %q", gotText)
	}
}

func TestSearch_PassesConfiguredKNN(t *testing.T) {
	idx := &mockIndex{}
	idx.knnFn = func(
		_ context.Context, vectorField string, vector []float32,
		k int, _ filter.Expression,
	) ([]result.Hit, error) {
		if vectorField != "description_vector" {
			t.Errorf("unexpected vector field: %s", vectorField)
		}
		if k != 3 {
			t.Errorf("unexpected k: %d", k)
		}
		if len(vector) == 0 {
			t.Error("expected query embedding to be passed through")
		}
		return nil, nil
	}

	svc := New(idx, &mockEmbedder{}, testOptions())
	if _, err := svc.Search(context.Background(), "vector db", nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_EmbedError(t *testing.T) {
	wantErr := errors.New("provider down")
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, wantErr
		},
	}

	svc := New(&mockIndex{}, emb, testOptions())
	_, err := svc.Search(context.Background(), "q", nil, "")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected embed error, got %v", err)
	}
}

func TestSearch_FusesAndProjects(t *testing.T) {
	idx := &mockIndex{
		knnFn: func(_ context.Context, _ string, _ []float32, _ int, _ filter.Expression) ([]result.Hit, error) {
			return []result.Hit{hit("a", 0.95, 1), hit("b", 0.80, 2)}, nil
		},
		textFn: func(_ context.Context, _ string, _ int, _ filter.Expression) ([]result.Hit, error) {
			return []result.Hit{hit("b", 3.1, 2), hit("c", 1.2, 3)}, nil
		},
	}

	svc := New(idx, &mockEmbedder{}, testOptions())
	results, err := svc.Search(context.Background(), "q", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// b appears in both rankings, so its fused score wins.
	if results[0].ID != "b" {
		t.Errorf("expected b first, got %s", results[0].ID)
	}
	if results[0].ProgrammingLanguages == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestSearch_WindowCapsResults(t *testing.T) {
	many := make([]result.Hit, 0, 12)
	for i := 0; i < 12; i++ {
		many = append(many, hit(string(rune('a'+i)), 1.0, 1))
	}
	idx := &mockIndex{
		textFn: func(_ context.Context, _ string, _ int, _ filter.Expression) ([]result.Hit, error) {
			return many, nil
		},
	}

	svc := New(idx, &mockEmbedder{}, testOptions())
	results, err := svc.Search(context.Background(), "q", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 8 {
		t.Errorf("expected window of 8, got %d", len(results))
	}
}

func TestSearch_ComplexitySort(t *testing.T) {
	idx := &mockIndex{
		knnFn: func(_ context.Context, _ string, _ []float32, _ int, _ filter.Expression) ([]result.Hit, error) {
			return []result.Hit{hit("adv", 0.9, 3), hit("beg", 0.8, 1), hit("mid", 0.7, 2)}, nil
		},
	}

	svc := New(idx, &mockEmbedder{}, testOptions())

	asc, err := svc.Search(context.Background(), "q", nil, SortComplexityAsc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asc[0].ID != "beg" || asc[2].ID != "adv" {
		t.Errorf("unexpected asc order: %v, %v, %v", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc, err := svc.Search(context.Background(), "q", nil, SortComplexityDesc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc[0].ID != "adv" {
		t.Errorf("unexpected desc order: %v", desc[0].ID)
	}
}

func TestSearch_UnknownSortIgnored(t *testing.T) {
	idx := &mockIndex{
		knnFn: func(_ context.Context, _ string, _ []float32, _ int, _ filter.Expression) ([]result.Hit, error) {
			return []result.Hit{hit("first", 0.9, 3), hit("second", 0.8, 1)}, nil
		},
	}

	svc := New(idx, &mockEmbedder{}, testOptions())
	results, err := svc.Search(context.Background(), "q", nil, "relevance!!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].ID != "first" {
		t.Errorf("expected fusion order preserved, got %s first", results[0].ID)
	}
}

func TestFuseRRF_BothListsBeatSingle(t *testing.T) {
	knn := []result.Hit{hit("only-knn", 0.99, 1), hit("both", 0.5, 1)}
	bm25 := []result.Hit{hit("both", 9.0, 1)}

	fused := fuseRRF(knn, bm25, 8)
	if fused[0].Doc.ID != "both" {
		t.Errorf("expected doc in both rankings first, got %s", fused[0].Doc.ID)
	}
	// 1/(60+2) + 1/(60+1) vs 1/(60+1)
	if fused[0].Score <= fused[1].Score {
		t.Errorf("expected fused score to dominate: %f vs %f", fused[0].Score, fused[1].Score)
	}
}

func TestFuseRRF_Window(t *testing.T) {
	var knn []result.Hit
	for i := 0; i < 10; i++ {
		knn = append(knn, hit(string(rune('a'+i)), 1.0, 1))
	}
	fused := fuseRRF(knn, nil, 3)
	if len(fused) != 3 {
		t.Errorf("expected 3 fused hits, got %d", len(fused))
	}
}
