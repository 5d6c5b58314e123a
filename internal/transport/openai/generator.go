// Package openai implements the solution generator on an OpenAI-compatible
// chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
	"github.com/truescope/devisd/internal/metrics"
)

// Generator produces structured solutions via chat completions, with vision
// input for attached photos.
type Generator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewGenerator creates an OpenAI-compatible solution generator.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// analysisResponse mirrors the JSON schema requested in the prompt.
type analysisResponse struct {
	Diagnosis       string                `json:"diagnosis"`
	Description     string                `json:"description"`
	Materials       []domain.Material     `json:"materials"`
	EstimateLines   []domain.EstimateLine `json:"estimateLines"`
	Variants        []domain.Variant      `json:"variants"`
	Recommendations []string              `json:"recommendations"`
	Reasoning       string                `json:"reasoning"`
}

// Analyze implements domain.Generator. Image attachments are sent as vision
// parts; videos and other media are ignored.
func (g *Generator) Analyze(ctx context.Context, in domain.AnalysisInput) (domain.GenerationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: buildAnalysisPrompt(in)},
	}
	for _, f := range in.MediaFiles {
		if !strings.HasPrefix(f.MimeType, "image/") {
			continue
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: fmt.Sprintf("data:%s;base64,%s", f.MimeType, f.Data),
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return domain.GenerationResult{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	parsed, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	return domain.GenerationResult{
		Solution: domain.Solution{
			Diagnosis:       parsed.Diagnosis,
			Description:     parsed.Description,
			Materials:       parsed.Materials,
			EstimateLines:   parsed.EstimateLines,
			Variants:        parsed.Variants,
			Recommendations: parsed.Recommendations,
		},
		Reasoning: parsed.Reasoning,
	}, nil
}

// ExtractKeywords asks the model for retrieval keywords describing a
// resolved intervention. On any failure it degrades to the trade and
// problem type so validation never blocks on the model.
func (g *Generator) ExtractKeywords(ctx context.Context, trade domain.Trade, description, problemType string) ([]string, error) {
	content, err := g.complete(ctx, buildKeywordsPrompt(trade, description, problemType))
	if err != nil {
		g.logger.Warn("keyword extraction failed", zap.Error(err))
		return []string{string(trade), problemType}, nil
	}

	var keywords []string
	if jsonArr := extractJSONArray(content); jsonArr != "" {
		if err := json.Unmarshal([]byte(jsonArr), &keywords); err == nil && len(keywords) > 0 {
			return keywords, nil
		}
	}
	return []string{string(trade), problemType}, nil
}

// ClassifyProblemType buckets a description into one of the trade's problem
// labels, falling back to the trade's "other" bucket.
func (g *Generator) ClassifyProblemType(ctx context.Context, trade domain.Trade, description string) (string, error) {
	content, err := g.complete(ctx, buildClassifyPrompt(trade, description))
	if err != nil {
		g.logger.Warn("problem type classification failed", zap.Error(err))
		return fallbackProblemType(trade), nil
	}

	label := sanitizeLabel(content)
	for _, known := range problemTypes[trade] {
		if label == known {
			return label, nil
		}
	}
	return fallbackProblemType(trade), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAnalysis extracts and decodes the JSON object from a completion.
func parseAnalysis(content string) (analysisResponse, error) {
	jsonObj := extractJSONObject(content)
	if jsonObj == "" {
		return analysisResponse{}, fmt.Errorf("no JSON object in completion: %w", domain.ErrGenerationFailed)
	}
	var parsed analysisResponse
	if err := json.Unmarshal([]byte(jsonObj), &parsed); err != nil {
		return analysisResponse{}, fmt.Errorf("decode completion: %v: %w", err, domain.ErrGenerationFailed)
	}
	if parsed.Diagnosis == "" {
		return analysisResponse{}, fmt.Errorf("completion missing diagnosis: %w", domain.ErrGenerationFailed)
	}
	return parsed, nil
}

// extractJSONObject returns the outermost {...} span of a completion,
// tolerating prose or code fences around it.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

var labelRegex = regexp.MustCompile(`[^a-z_]`)

func sanitizeLabel(s string) string {
	return labelRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrGenerationFailed for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("generation request failed: %w", wrap)
}
