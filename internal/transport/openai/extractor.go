package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/metrics"
)

// maxReadmeChars caps the README text sent to the model. Anything
// beyond this adds cost without improving the extraction.
const maxReadmeChars = 48000

const extractionSystemPrompt = `You are an assistant that analyzes GitHub repository READMEs
and extracts structured metadata about the project. Respond with a single JSON object and
nothing else. The object must have exactly these fields:
  "project_name": string, the project's name
  "project_description": string, two or three sentences describing what the project does
  "programming_languages": array of strings
  "frameworks": array of strings
  "azure_services": array of strings, Azure services the project uses (empty if none)
  "design_patterns": array of strings, architectural or design patterns demonstrated
  "project_type": string, either "Educational/Demo" or "Accelerator"
  "code_complexity": string, one of "Beginner", "Intermediate", "Advanced"
  "business_value": string, one or two sentences on the business problem it addresses
  "target_audience": string, who the project is for
  "industries": array of strings, industries the project is relevant to (empty if generic)
Use empty strings and empty arrays for anything the README does not reveal. Do not invent
facts that are not supported by the README.`

// Extractor extracts project metadata from README text using a chat
// completion model.
type Extractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// ExtractorConfig holds the extraction model settings.
type ExtractorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewExtractor creates an OpenAI-compatible extraction client.
func NewExtractor(cfg *ExtractorConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Extractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Extract implements domain.Extractor. The model response is repaired
// before unmarshaling: smaller models routinely emit trailing commas or
// fenced code blocks around otherwise usable JSON.
func (e *Extractor) Extract(ctx context.Context, readme string) (domain.Extraction, error) {
	if len(readme) > maxReadmeChars {
		readme = readme[:maxReadmeChars]
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: readme},
		},
		Temperature: 0,
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return domain.Extraction{}, wrapExtractionError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return domain.Extraction{}, fmt.Errorf("no choices in completion response: %w", domain.ErrExtractionFailed)
	}

	ext, err := parseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "error").Inc()
		if e.logger != nil {
			e.logger.Warn("unparseable extraction response",
				zap.String("model", resp.Model),
				zap.Error(err))
		}
		return domain.Extraction{}, err
	}

	metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "success").Inc()
	metrics.ExtractionRequestDuration.WithLabelValues(e.model).Observe(duration.Seconds())

	return ext, nil
}

// parseExtraction strips code fences, repairs malformed JSON and
// unmarshals the extraction report.
func parseExtraction(content string) (domain.Extraction, error) {
	raw := extractJSONPayload(content)
	if raw == "" {
		return domain.Extraction{}, fmt.Errorf("empty completion content: %w", domain.ErrExtractionFailed)
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("repair extraction JSON: %v: %w", err, domain.ErrExtractionFailed)
	}

	var ext domain.Extraction
	if err := json.Unmarshal([]byte(repaired), &ext); err != nil {
		return domain.Extraction{}, fmt.Errorf("decode extraction JSON: %v: %w", err, domain.ErrExtractionFailed)
	}
	return ext, nil
}

// extractJSONPayload pulls the JSON object out of a completion that may
// wrap it in markdown fences or surrounding prose.
func extractJSONPayload(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx != -1 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1]
	}

	return content
}

// wrapExtractionError wraps API failures with domain.ErrExtractionFailed
// so the transport layer maps them to 502.
func wrapExtractionError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrExtractionFailed)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrExtractionFailed)
	}

	return fmt.Errorf("extraction request failed: %v: %w", err, domain.ErrExtractionFailed)
}
