// Package github fetches README content for public repositories via
// raw.githubusercontent.com. No GitHub API token is needed for public
// repos, and the raw host has no meaningful rate limit for this volume.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
)

const defaultRawBaseURL = "https://raw.githubusercontent.com"

// branches probed in order. Older repositories still use master as the
// default branch.
var branches = []string{"main", "master"}

// ReadmeFetcher retrieves README.md from the repository's default branch.
type ReadmeFetcher struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// Option configures a ReadmeFetcher.
type Option func(*ReadmeFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *ReadmeFetcher) { f.client = c }
}

// WithBaseURL overrides the raw content host. Used in tests.
func WithBaseURL(u string) Option {
	return func(f *ReadmeFetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// NewReadmeFetcher creates a fetcher for raw.githubusercontent.com.
func NewReadmeFetcher(logger *zap.Logger, opts ...Option) *ReadmeFetcher {
	f := &ReadmeFetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultRawBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements domain.ReadmeFetcher. It tries the main branch first
// and falls back to master. A repository without a README returns an
// empty string and no error; the caller decides whether that is fatal.
func (f *ReadmeFetcher) Fetch(ctx context.Context, repoURL string) (string, error) {
	owner, repo, err := parseRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	for _, branch := range branches {
		rawURL := fmt.Sprintf("%s/%s/%s/%s/README.md", f.baseURL, owner, repo, branch)

		content, status, err := f.get(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		if status == http.StatusOK {
			return content, nil
		}
		if status != http.StatusNotFound {
			return "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, status)
		}
	}

	if f.logger != nil {
		f.logger.Info("readme not found on any default branch",
			zap.String("owner", owner),
			zap.String("repo", repo))
	}
	return "", nil
}

func (f *ReadmeFetcher) get(ctx context.Context, rawURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

// parseRepoURL extracts owner and repo from a GitHub URL. The last two
// path segments are taken, so both https://github.com/owner/repo and
// owner/repo shorthand work.
func parseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: cannot parse repository url %q", domain.ErrInvalidInput, repoURL)
	}

	owner = parts[len(parts)-2]
	repo = parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: cannot parse repository url %q", domain.ErrInvalidInput, repoURL)
	}
	return owner, repo, nil
}
