package review

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/projdex/internal/domain"
)

type mockCatalog struct {
	upsertFn func(ctx context.Context, p *domain.Project) (bool, error)
	getFn    func(ctx context.Context, id string) (domain.Project, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, status string) ([]domain.Project, error)
}

func (m *mockCatalog) Upsert(ctx context.Context, p *domain.Project) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return true, nil
}

func (m *mockCatalog) Get(ctx context.Context, id string) (domain.Project, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Project{}, domain.ErrProjectNotFound
}

func (m *mockCatalog) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCatalog) ListByStatus(ctx context.Context, status string) ([]domain.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

type mockIndexer struct {
	indexFn  func(ctx context.Context, rec domain.Project) (domain.SearchDocument, error)
	removeFn func(ctx context.Context, id string) error
}

func (m *mockIndexer) Index(ctx context.Context, rec domain.Project) (domain.SearchDocument, error) {
	if m.indexFn != nil {
		return m.indexFn(ctx, rec)
	}
	return domain.SearchDocument{ID: rec.ID}, nil
}

func (m *mockIndexer) Remove(ctx context.Context, id string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, p domain.Project) error
}

func (m *mockNotifier) NotifyReview(ctx context.Context, p domain.Project) error {
	if m.notifyFn != nil {
		return m.notifyFn(ctx, p)
	}
	return nil
}

func submission() domain.Project {
	return domain.Project{
		ProjectName:        "Demo",
		ProjectDescription: "A demo project",
		GithubURL:          "https://github.com/acme/demo",
	}
}

func TestSubmit_BlankURL(t *testing.T) {
	svc := New(&mockCatalog{}, &mockIndexer{}, &mockNotifier{})

	_, err := svc.Submit(context.Background(), domain.Project{GithubURL: "  "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmit_NotifyBeforePersist(t *testing.T) {
	var sequence []string
	cat := &mockCatalog{upsertFn: func(_ context.Context, _ *domain.Project) (bool, error) {
		sequence = append(sequence, "persist")
		return true, nil
	}}
	not := &mockNotifier{notifyFn: func(_ context.Context, _ domain.Project) error {
		sequence = append(sequence, "notify")
		return nil
	}}

	svc := New(cat, &mockIndexer{}, not)
	p, err := svc.Submit(context.Background(), submission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sequence) != 2 || sequence[0] != "notify" || sequence[1] != "persist" {
		t.Errorf("expected notify then persist, got %v", sequence)
	}
	if p.ReviewStatus != domain.StatusPending {
		t.Errorf("expected pending status, got %s", p.ReviewStatus)
	}
	if p.ID != domain.DocumentID(p.GithubURL) {
		t.Errorf("expected url-derived id, got %s", p.ID)
	}
	if p.Owner != "anonymous" {
		t.Errorf("expected default owner, got %s", p.Owner)
	}
}

func TestSubmit_NotifyFailureSkipsPersist(t *testing.T) {
	persisted := false
	cat := &mockCatalog{upsertFn: func(_ context.Context, _ *domain.Project) (bool, error) {
		persisted = true
		return true, nil
	}}
	not := &mockNotifier{notifyFn: func(_ context.Context, _ domain.Project) error {
		return errors.New("smtp down")
	}}

	svc := New(cat, &mockIndexer{}, not)
	_, err := svc.Submit(context.Background(), submission())
	if !errors.Is(err, domain.ErrNotificationFailed) {
		t.Errorf("expected ErrNotificationFailed, got %v", err)
	}
	if persisted {
		t.Error("record must not be persisted when notification fails")
	}
}

func TestApprove_PersistsThenIndexes(t *testing.T) {
	var sequence []string
	cat := &mockCatalog{upsertFn: func(_ context.Context, p *domain.Project) (bool, error) {
		sequence = append(sequence, "persist")
		if p.ReviewStatus != domain.StatusApproved {
			t.Errorf("expected approved status at persist time, got %s", p.ReviewStatus)
		}
		return false, nil
	}}
	idx := &mockIndexer{indexFn: func(_ context.Context, rec domain.Project) (domain.SearchDocument, error) {
		sequence = append(sequence, "index")
		return domain.SearchDocument{ID: rec.ID}, nil
	}}

	svc := New(cat, idx, &mockNotifier{})
	p, err := svc.Approve(context.Background(), submission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sequence) != 2 || sequence[0] != "persist" || sequence[1] != "index" {
		t.Errorf("expected persist then index, got %v", sequence)
	}
	if p.ReviewStatus != domain.StatusApproved {
		t.Errorf("expected approved, got %s", p.ReviewStatus)
	}
}

func TestApprove_IndexFailureSurfacesButRecordStays(t *testing.T) {
	wantErr := errors.New("embeddings down")
	persisted := false
	cat := &mockCatalog{upsertFn: func(_ context.Context, _ *domain.Project) (bool, error) {
		persisted = true
		return false, nil
	}}
	idx := &mockIndexer{indexFn: func(_ context.Context, _ domain.Project) (domain.SearchDocument, error) {
		return domain.SearchDocument{}, wantErr
	}}

	svc := New(cat, idx, &mockNotifier{})
	_, err := svc.Approve(context.Background(), submission())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected index error, got %v", err)
	}
	if !persisted {
		t.Error("approval must be persisted before indexing")
	}
}

func TestReject_NotFound(t *testing.T) {
	svc := New(&mockCatalog{}, &mockIndexer{}, &mockNotifier{})

	err := svc.Reject(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestReject_PendingSkipsIndexCleanup(t *testing.T) {
	cat := &mockCatalog{getFn: func(_ context.Context, id string) (domain.Project, error) {
		return domain.Project{ID: id, ReviewStatus: domain.StatusPending}, nil
	}}
	idx := &mockIndexer{removeFn: func(_ context.Context, _ string) error {
		t.Fatal("index cleanup must not run for pending records")
		return nil
	}}

	svc := New(cat, idx, &mockNotifier{})
	if err := svc.Reject(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReject_ApprovedCleansIndex(t *testing.T) {
	cat := &mockCatalog{getFn: func(_ context.Context, id string) (domain.Project, error) {
		return domain.Project{ID: id, ReviewStatus: domain.StatusApproved}, nil
	}}
	var removedID string
	idx := &mockIndexer{removeFn: func(_ context.Context, id string) error {
		removedID = id
		return nil
	}}

	svc := New(cat, idx, &mockNotifier{})
	if err := svc.Reject(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removedID != "abc" {
		t.Errorf("expected index cleanup for abc, got %q", removedID)
	}
}

func TestReject_IndexCleanupFailureIsNotFatal(t *testing.T) {
	cat := &mockCatalog{getFn: func(_ context.Context, id string) (domain.Project, error) {
		return domain.Project{ID: id, ReviewStatus: domain.StatusApproved}, nil
	}}
	idx := &mockIndexer{removeFn: func(_ context.Context, _ string) error {
		return errors.New("index down")
	}}

	svc := New(cat, idx, &mockNotifier{})
	if err := svc.Reject(context.Background(), "abc"); err != nil {
		t.Errorf("cleanup failure must not fail the rejection: %v", err)
	}
}

func TestListPending(t *testing.T) {
	cat := &mockCatalog{listFn: func(_ context.Context, status string) ([]domain.Project, error) {
		if status != domain.StatusPending {
			t.Errorf("expected pending filter, got %s", status)
		}
		return []domain.Project{{ID: "a"}, {ID: "b"}}, nil
	}}

	svc := New(cat, &mockIndexer{}, &mockNotifier{})
	records, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestReconcile_ApprovedReindexes(t *testing.T) {
	cat := &mockCatalog{getFn: func(_ context.Context, id string) (domain.Project, error) {
		return domain.Project{ID: id, ReviewStatus: domain.StatusApproved}, nil
	}}
	indexed := false
	idx := &mockIndexer{indexFn: func(_ context.Context, rec domain.Project) (domain.SearchDocument, error) {
		indexed = true
		return domain.SearchDocument{ID: rec.ID}, nil
	}}

	svc := New(cat, idx, &mockNotifier{})
	done, err := svc.Reconcile(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done || !indexed {
		t.Error("expected approved record to be reindexed")
	}
}

func TestReconcile_PendingIsNoop(t *testing.T) {
	cat := &mockCatalog{getFn: func(_ context.Context, id string) (domain.Project, error) {
		return domain.Project{ID: id, ReviewStatus: domain.StatusPending}, nil
	}}
	idx := &mockIndexer{indexFn: func(_ context.Context, _ domain.Project) (domain.SearchDocument, error) {
		t.Fatal("pending records must not be indexed")
		return domain.SearchDocument{}, nil
	}}

	svc := New(cat, idx, &mockNotifier{})
	done, err := svc.Reconcile(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Error("expected no index write for pending record")
	}
}
