package openai

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
	defaultBaseURL  = "https://api.openai.com/v1"
	defaultModel    = "gpt-4o"
	maxOutputTokens = 4096
)

// Config for the OpenAI adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements analysis.Provider against chat/completions.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs the adapter. An empty API key only makes the
// provider report unavailable.
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
		logger:     logger.With("component", "llm.openai"),
	}
}

// Name implements analysis.Provider.
func (c *Client) Name() analysis.ProviderName {
	return analysis.ProviderOpenAI
}

// IsAvailable reports whether a credential is configured. No network call.
func (c *Client) IsAvailable() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat map[string]any `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// AnalyzePhotos sends one chat/completions request and normalizes the reply.
func (c *Client) AnalyzePhotos(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	prompt := analysis.BuildAnalysisPrompt(req.RoomType, req.RehabLevel, req.PropertyContext.YearBuilt, req.PreviousAnalyses)

	parts := make([]contentPart, 0, len(req.Photos)+2)
	for _, photo := range req.Photos {
		parts = append(parts, contentPart{
			Type: "image_url",
			ImageURL: &imageURL{
				URL:    "data:" + photo.MimeType + ";base64," + photo.Base64,
				Detail: "high",
			},
		})
	}
	parts = append(parts, contentPart{Type: "text", Text: prompt})
	if followUp := analysis.RenderFollowUpContext(req.UserResponses); followUp != "" {
		parts = append(parts, contentPart{Type: "text", Text: followUp})
	}

	payload, err := json.Marshal(chatRequest{
		Model:          c.cfg.Model,
		MaxTokens:      maxOutputTokens,
		ResponseFormat: map[string]any{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: analysis.SystemPrompt},
			{Role: "user", Content: parts},
		},
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("encode openai request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return analysis.Result{}, fmt.Errorf("build openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("read openai response: %w", err)
	}
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return analysis.Result{}, &analysis.ProviderHTTPError{
			Provider:   analysis.ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return analysis.Result{}, &analysis.MalformedResponseError{
			Provider: analysis.ProviderOpenAI,
			Reason:   "undecodable response envelope: " + err.Error(),
		}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return analysis.Result{}, &analysis.MalformedResponseError{
			Provider: analysis.ProviderOpenAI,
			Reason:   "no message content in response",
		}
	}

	assessment, err := analysis.ParseAssessment(analysis.ProviderOpenAI, decoded.Choices[0].Message.Content)
	if err != nil {
		return analysis.Result{}, err
	}

	usage := metrics.TokenUsage{
		PromptTokens:     decoded.Usage.PromptTokens,
		CompletionTokens: decoded.Usage.CompletionTokens,
		TotalTokens:      decoded.Usage.PromptTokens + decoded.Usage.CompletionTokens,
	}
	c.logger.Debug("openai analysis complete",
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
		Provider:          analysis.ProviderOpenAI,
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
