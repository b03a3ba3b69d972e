package searchindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/projdex/internal/db"
	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
)

type mockStore struct {
	hsetFn       func(ctx context.Context, key string, fields map[string]string) error
	delFn        func(ctx context.Context, key string) error
	existsFn     func(ctx context.Context, key string) (bool, error)
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{}
	return New(ms, "projdex:", 1536, 16, 200), ms
}

func testDoc() *domain.SearchDocument {
	return &domain.SearchDocument{
		ID:                   "abc123",
		ProjectName:          "Demo",
		ProjectDescription:   "A demo project",
		GithubURL:            "https://github.com/acme/demo",
		Owner:                "alice@example.com",
		ProgrammingLanguages: []string{"Go", "Python"},
		Frameworks:           []string{"chi"},
		AzureServices:        []string{},
		DesignPatterns:       []string{},
		Industries:           []string{},
		Customers:            []string{},
		ProjectType:          domain.TypeEducational,
		CodeComplexity:       "Beginner",
		CodeComplexityRank:   1,
		BusinessValue:        "Learning",
		TargetAudience:       "Developers",
		DescriptionVector:    []float32{0.1, 0.2},
		BusinessValueVector:  []float32{0.3, 0.4},
		TargetAudienceVector: []float32{0.5, 0.6},
	}
}

func TestUpsert_FieldShape(t *testing.T) {
	repo, ms := newTestRepo()

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	if err := repo.Upsert(context.Background(), testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "projdex:search:abc123" {
		t.Errorf("unexpected key: %s", gotKey)
	}
	if gotFields[FieldProgrammingLanguages] != "Go,Python" {
		t.Errorf("expected comma-joined tags, got %q", gotFields[FieldProgrammingLanguages])
	}
	if gotFields[FieldCodeComplexityRank] != "1" {
		t.Errorf("unexpected rank: %q", gotFields[FieldCodeComplexityRank])
	}
	if len(gotFields[FieldDescriptionVector]) != 8 {
		t.Errorf("expected 8-byte vector, got %d bytes", len(gotFields[FieldDescriptionVector]))
	}
}

func TestDelete_MissingIsNoop(t *testing.T) {
	repo, ms := newTestRepo()
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.delFn = func(_ context.Context, _ string) error {
		t.Fatal("DEL must not be called for missing docs")
		return nil
	}

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists_KeyShape(t *testing.T) {
	repo, ms := newTestRepo()
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "projdex:search:abc123", nil
	}

	ok, err := repo.Exists(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected doc to exist under prefixed key")
	}
}

func TestHashFields_RoundTrip(t *testing.T) {
	want := testDoc()

	got := parseHashFields(want.ID, buildHashFields(want))

	if got.ProjectName != want.ProjectName || got.CodeComplexityRank != 1 {
		t.Errorf("unexpected doc: %+v", got)
	}
	if len(got.ProgrammingLanguages) != 2 || got.ProgrammingLanguages[0] != "Go" {
		t.Errorf("unexpected languages: %v", got.ProgrammingLanguages)
	}
	if len(got.AzureServices) != 0 {
		t.Errorf("expected empty azure services, got %v", got.AzureServices)
	}
}

func TestKNN_QueryShape(t *testing.T) {
	repo, ms := newTestRepo()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "projdex:search:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.VectorField != FieldDescriptionVector {
			t.Errorf("unexpected vector field: %s", q.VectorField)
		}
		if q.K != 3 {
			t.Errorf("unexpected k: %d", q.K)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:    "projdex:search:abc123",
				Score:  0.9,
				Fields: map[string]string{FieldProjectName: "Demo"},
			}},
		}, nil
	}

	hits, err := repo.KNN(context.Background(), FieldDescriptionVector,
		[]float32{0.1}, 3, filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Doc.ID != "abc123" {
		t.Errorf("expected bare doc id, got %s", hits[0].Doc.ID)
	}
	if hits[0].Doc.ProjectName != "Demo" {
		t.Errorf("expected parsed fields, got %+v", hits[0].Doc)
	}
}

func TestText_QueryShape(t *testing.T) {
	repo, ms := newTestRepo()

	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.IndexName != "projdex:search:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.TopK != 8 {
			t.Errorf("unexpected topK: %d", q.TopK)
		}
		return &db.SearchResult{}, nil
	}

	_, err := repo.Text(context.Background(), "vector search", 8, filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestText_WildcardPassThrough(t *testing.T) {
	repo, ms := newTestRepo()

	var gotQuery string
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		gotQuery = q.Query
		return &db.SearchResult{}, nil
	}

	if _, err := repo.Text(context.Background(), "*", 8, filter.Expression{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "*" {
		t.Errorf("match-all query rewritten to %q", gotQuery)
	}
}

func TestIndexDefinition_Shape(t *testing.T) {
	repo, _ := newTestRepo()
	def := repo.indexDefinition()

	if def.Name != "projdex:search:idx" {
		t.Errorf("unexpected index name: %s", def.Name)
	}
	if def.StorageType != db.StorageHash {
		t.Errorf("unexpected storage type: %s", def.StorageType)
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("definition invalid: %v", err)
	}

	vectors := 0
	texts := 0
	tags := 0
	numerics := 0
	for _, f := range def.Fields {
		switch f.Type {
		case db.IndexFieldVector:
			vectors++
			if f.VectorDim != 1536 || f.VectorAlgo != db.VectorHNSW {
				t.Errorf("unexpected vector field config: %+v", f)
			}
		case db.IndexFieldText:
			texts++
		case db.IndexFieldTag:
			tags++
		case db.IndexFieldNumeric:
			numerics++
		}
	}
	if vectors != 3 {
		t.Errorf("expected 3 vector fields, got %d", vectors)
	}
	if texts != 4 {
		t.Errorf("expected 4 text fields, got %d", texts)
	}
	if tags != 9 {
		t.Errorf("expected 9 tag fields, got %d", tags)
	}
	if numerics != 1 {
		t.Errorf("expected 1 numeric field, got %d", numerics)
	}
}
