// Package resend sends review notification emails through the Resend
// HTTP API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
)

const defaultBaseURL = "https://api.resend.com"

// emailRequest is the Resend API send payload.
type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type emailResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Notifier emails reviewers when a project is submitted for review.
type Notifier struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	from      string
	reviewers []string
	logger    *zap.Logger
}

// Config holds the Resend notifier settings.
type Config struct {
	APIKey    string
	BaseURL   string
	From      string
	Reviewers []string
	Logger    *zap.Logger
}

// NewNotifier creates a Resend-backed notifier.
func NewNotifier(cfg *Config) *Notifier {
	baseURL := defaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Notifier{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		from:      cfg.From,
		reviewers: cfg.Reviewers,
		logger:    cfg.Logger,
	}
}

// NotifyReview implements domain.Notifier. Failures are wrapped with
// domain.ErrNotificationFailed so the submit flow can refuse to persist
// a record nobody will ever review.
func (n *Notifier) NotifyReview(ctx context.Context, p domain.Project) error {
	if len(n.reviewers) == 0 {
		return fmt.Errorf("%w: no reviewers configured", domain.ErrNotificationFailed)
	}

	payload := emailRequest{
		From:    n.from,
		To:      n.reviewers,
		Subject: fmt.Sprintf("Project submitted for review: %s", p.ProjectName),
		HTML:    renderHTML(p),
		Text:    renderText(p),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %v: %w", err, domain.ErrNotificationFailed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read email response: %v: %w", err, domain.ErrNotificationFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("resend API error %d: %s: %w",
				resp.StatusCode, errResp.Message, domain.ErrNotificationFailed)
		}
		return fmt.Errorf("resend API error %d: %s: %w",
			resp.StatusCode, string(respBody), domain.ErrNotificationFailed)
	}

	var sent emailResponse
	if json.Unmarshal(respBody, &sent) == nil && n.logger != nil {
		n.logger.Info("review notification sent",
			zap.String("emailId", sent.ID),
			zap.String("project", p.ProjectName))
	}
	return nil
}

func renderHTML(p domain.Project) string {
	var b strings.Builder
	b.WriteString("<h2>New project submitted for review</h2>")
	b.WriteString("<table>")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>",
			html.EscapeString(label), html.EscapeString(value))
	}
	row("Project", p.ProjectName)
	row("Description", p.ProjectDescription)
	row("Repository", p.GithubURL)
	row("Submitted by", p.Owner)
	row("Type", p.ProjectType)
	row("Complexity", p.CodeComplexity)
	b.WriteString("</table>")
	fmt.Fprintf(&b, `<p><a href="%s">View repository</a></p>`, html.EscapeString(p.GithubURL))
	return b.String()
}

func renderText(p domain.Project) string {
	var b strings.Builder
	b.WriteString("New project submitted for review\n\n")
	fmt.Fprintf(&b, "Project: %s\n", p.ProjectName)
	fmt.Fprintf(&b, "Description: %s\n", p.ProjectDescription)
	fmt.Fprintf(&b, "Repository: %s\n", p.GithubURL)
	fmt.Fprintf(&b, "Submitted by: %s\n", p.Owner)
	fmt.Fprintf(&b, "Type: %s\n", p.ProjectType)
	fmt.Fprintf(&b, "Complexity: %s\n", p.CodeComplexity)
	return b.String()
}
