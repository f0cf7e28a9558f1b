package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	"github.com/rehabscope/rehabscope/pkg/metrics"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	anthropicVersion = "2024-10-22"
	maxOutputTokens  = 4096
)

// Config for the Anthropic adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements analysis.Provider against the Anthropic messages API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs the adapter. An empty API key is allowed; it just
// makes the provider report unavailable.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "llm.claude"),
	}
}

// Name implements analysis.Provider.
func (c *Client) Name() analysis.ProviderName {
	return analysis.ProviderClaude
}

// IsAvailable reports whether a credential is configured. No network call.
func (c *Client) IsAvailable() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Wire format mirrors the Anthropic messages API.

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// AnalyzePhotos sends one messages request and normalizes the reply.
func (c *Client) AnalyzePhotos(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	prompt := analysis.BuildAnalysisPrompt(req.RoomType, req.RehabLevel, req.PropertyContext.YearBuilt, req.PreviousAnalyses)

	content := make([]contentBlock, 0, len(req.Photos)+2)
	for _, photo := range req.Photos {
		content = append(content, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: photo.MimeType,
				Data:      photo.Base64,
			},
		})
	}
	content = append(content, contentBlock{Type: "text", Text: prompt})
	if followUp := analysis.RenderFollowUpContext(req.UserResponses); followUp != "" {
		content = append(content, contentBlock{Type: "text", Text: followUp})
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxOutputTokens,
		System:    analysis.SystemPrompt,
		Messages:  []message{{Role: "user", Content: content}},
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("encode claude request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return analysis.Result{}, fmt.Errorf("build claude request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	// Latency is telemetry only; it never drives control flow.
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("read claude response: %w", err)
	}
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return analysis.Result{}, &analysis.ProviderHTTPError{
			Provider:   analysis.ProviderClaude,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	var decoded messagesResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return analysis.Result{}, &analysis.MalformedResponseError{
			Provider: analysis.ProviderClaude,
			Reason:   "undecodable response envelope: " + err.Error(),
		}
	}

	text := ""
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return analysis.Result{}, &analysis.MalformedResponseError{
			Provider: analysis.ProviderClaude,
			Reason:   "no text content in response",
		}
	}

	assessment, err := analysis.ParseAssessment(analysis.ProviderClaude, text)
	if err != nil {
		return analysis.Result{}, err
	}

	usage := metrics.TokenUsage{
		PromptTokens:     decoded.Usage.InputTokens,
		CompletionTokens: decoded.Usage.OutputTokens,
		TotalTokens:      decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
	}
	c.logger.Debug("claude analysis complete",
		"model", decoded.Model,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"latency_ms", latency.Milliseconds(),
	)

	modelVersion := decoded.Model
	if modelVersion == "" {
		modelVersion = c.cfg.Model
	}

	return analysis.Result{
		Provider:          analysis.ProviderClaude,
		ModelVersion:      modelVersion,
		Observations:      assessment.Observations,
		Defects:           assessment.Defects,
		ConditionScore:    assessment.ConditionScore,
		FollowUpQuestions: assessment.FollowUpQuestions,
		SuggestedRepairs:  assessment.SuggestedRepairs,
		NarrativeSummary:  assessment.NarrativeSummary,
		RawResponse:       raw,
		TokensUsed:        usage.TotalTokens,
		LatencyMs:         latency.Milliseconds(),
	}, nil
}
