package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/projdex/internal/domain"
)

type mockIndex struct {
	upsertFn func(ctx context.Context, doc *domain.SearchDocument) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockIndex) Upsert(ctx context.Context, doc *domain.SearchDocument) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockIndex) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func testRecord() domain.Project {
	p := domain.Project{
		ProjectName:        "Demo",
		ProjectDescription: "A demo project",
		GithubURL:          "https://github.com/acme/demo",
		BusinessValue:      "Learning",
		TargetAudience:     "Developers",
		CodeComplexity:     "Intermediate",
		ReviewStatus:       domain.StatusApproved,
	}
	p.Normalize()
	return p
}

func TestIndex_BuildsProjection(t *testing.T) {
	var got *domain.SearchDocument
	idx := &mockIndex{upsertFn: func(_ context.Context, doc *domain.SearchDocument) error {
		got = doc
		return nil
	}}
	emb := &mockEmbedder{}

	svc := New(idx, emb)
	rec := testRecord()

	doc, err := svc.Index(context.Background(), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected upsert to be called")
	}
	if doc.ID != rec.ID {
		t.Errorf("expected stored id %s, got %s", rec.ID, doc.ID)
	}
	if doc.CodeComplexityRank != 2 {
		t.Errorf("expected rank 2 for Intermediate, got %d", doc.CodeComplexityRank)
	}
	if emb.calls != 3 {
		t.Errorf("expected 3 embeddings, got %d", emb.calls)
	}
	if len(doc.DescriptionVector) == 0 || len(doc.BusinessValueVector) == 0 ||
		len(doc.TargetAudienceVector) == 0 {
		t.Error("expected all three vectors populated")
	}
	if doc.AzureServices == nil {
		t.Error("expected empty slice defaults, not nil")
	}
}

func TestIndex_KeepsStoredIDOnMismatch(t *testing.T) {
	var got *domain.SearchDocument
	idx := &mockIndex{upsertFn: func(_ context.Context, doc *domain.SearchDocument) error {
		got = doc
		return nil
	}}

	rec := testRecord()
	rec.ID = "stored-id-from-before-url-change"

	svc := New(idx, &mockEmbedder{})
	if _, err := svc.Index(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("expected stored id kept, got %s", got.ID)
	}
}

func TestIndex_EmbeddingFailureAborts(t *testing.T) {
	wantErr := errors.New("provider down")
	upserted := false
	idx := &mockIndex{upsertFn: func(_ context.Context, _ *domain.SearchDocument) error {
		upserted = true
		return nil
	}}
	emb := &mockEmbedder{}
	emb.embedFn = func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
		if emb.calls == 2 { // second narrative field fails
			return domain.EmbeddingResult{}, wantErr
		}
		return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
	}

	svc := New(idx, emb)
	_, err := svc.Index(context.Background(), testRecord())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embed error, got %v", err)
	}
	if upserted {
		t.Error("no document may be written after a failed embedding")
	}
}

func TestIndex_UpsertError(t *testing.T) {
	wantErr := errors.New("store down")
	idx := &mockIndex{upsertFn: func(_ context.Context, _ *domain.SearchDocument) error {
		return wantErr
	}}

	svc := New(idx, &mockEmbedder{})
	_, err := svc.Index(context.Background(), testRecord())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected upsert error, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	var gotID string
	idx := &mockIndex{deleteFn: func(_ context.Context, id string) error {
		gotID = id
		return nil
	}}

	svc := New(idx, &mockEmbedder{})
	if err := svc.Remove(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "abc" {
		t.Errorf("unexpected id: %s", gotID)
	}
}
