// Package review implements the moderation workflow: pending records
// await an admin decision, approval projects them into the search
// index, rejection deletes them.
package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/logger"
)

// Service handles the review lifecycle of project records.
type Service struct {
	catalog Catalog
	indexer Indexer
	notify  Notifier
}

// New creates a review service.
func New(catalog Catalog, indexer Indexer, notify Notifier) *Service {
	return &Service{catalog: catalog, indexer: indexer, notify: notify}
}

// Submit records a user submission as pending. Reviewers are notified
// BEFORE the record is persisted: if nobody hears about the submission
// it must not exist, or it would sit unreviewed forever. Re-submitting
// the same URL overwrites the earlier pending record.
func (s *Service) Submit(ctx context.Context, p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.GithubURL) == "" {
		return domain.Project{}, fmt.Errorf("%w: github url is required", domain.ErrInvalidInput)
	}

	p.ReviewStatus = domain.StatusPending
	p.Normalize()

	if err := s.notify.NotifyReview(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	if _, err := s.catalog.Upsert(ctx, &p); err != nil {
		return domain.Project{}, fmt.Errorf("persist submission: %w", err)
	}
	return p, nil
}

// Approve persists the (possibly admin-edited) record as approved, then
// indexes it. The two writes are not atomic: an index failure leaves the
// record approved but unindexed, and Reconcile converges it later.
func (s *Service) Approve(ctx context.Context, p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.GithubURL) == "" {
		return domain.Project{}, fmt.Errorf("%w: github url is required", domain.ErrInvalidInput)
	}

	p.ReviewStatus = domain.StatusApproved
	p.Normalize()

	if _, err := s.catalog.Upsert(ctx, &p); err != nil {
		return domain.Project{}, fmt.Errorf("persist approval: %w", err)
	}

	if _, err := s.indexer.Index(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("index approved record %s: %w", p.ID, err)
	}
	return p, nil
}

// Reject removes a record. If it had already been approved, its search
// index entry is removed too so no orphaned hit survives the record.
// Index cleanup is best-effort: the catalog delete has already happened
// and cannot be retried through this path.
func (s *Service) Reject(ctx context.Context, id string) error {
	rec, err := s.catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load record %s: %w", id, err)
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	if rec.ReviewStatus == domain.StatusApproved {
		if err := s.indexer.Remove(ctx, id); err != nil {
			logger.FromContext(ctx).Warn("rejected record left orphaned in search index",
				zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

// ListPending returns all records awaiting review.
func (s *Service) ListPending(ctx context.Context) ([]domain.Project, error) {
	records, err := s.catalog.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return records, nil
}

// Reconcile re-reads a record and re-indexes it if approved. Returns
// true when an index write happened. This is the convergence path for
// approvals whose index step failed.
func (s *Service) Reconcile(ctx context.Context, id string) (bool, error) {
	rec, err := s.catalog.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load record %s: %w", id, err)
	}

	if rec.ReviewStatus != domain.StatusApproved {
		return false, nil
	}

	if _, err := s.indexer.Index(ctx, rec); err != nil {
		return false, fmt.Errorf("reindex record %s: %w", id, err)
	}
	return true, nil
}
