package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() analysis.Request {
	return analysis.Request{
		Photos: []analysis.PhotoInput{
			{Base64: "aGVsbG8=", MimeType: "image/png", PhotoType: analysis.PhotoDetail},
		},
		RoomType:        analysis.RoomBathroom,
		RehabLevel:      analysis.RehabCosmetic,
		PropertyContext: analysis.PropertyContext{YearBuilt: 1995, ZipCode: "10001"},
	}
}

func TestAnalyzePhotosSuccess(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-2024-08-06",
			"choices": [{"message": {"content": "{\"narrativeSummary\":\"Clean bathroom\",\"conditionScore\":8}"}}],
			"usage": {"prompt_tokens": 1800, "completion_tokens": 350}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: time.Second}, newTestLogger())
	require.True(t, client.IsAvailable())
	require.Equal(t, analysis.ProviderOpenAI, client.Name())

	result, err := client.AnalyzePhotos(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, analysis.ProviderOpenAI, result.Provider)
	require.Equal(t, "gpt-4o-2024-08-06", result.ModelVersion)
	require.Equal(t, "Clean bathroom", result.NarrativeSummary)
	require.Equal(t, 8, result.ConditionScore)
	require.Equal(t, 2150, result.TokensUsed)

	require.Equal(t, "gpt-4o", captured["model"])
	format := captured["response_format"].(map[string]any)
	require.Equal(t, "json_object", format["type"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)

	system := messages[0].(map[string]any)
	require.Equal(t, "system", system["role"])
	require.Contains(t, system["content"], "construction estimator")

	user := messages[1].(map[string]any)
	require.Equal(t, "user", user["role"])
	parts := user["content"].([]any)
	require.Len(t, parts, 2)

	image := parts[0].(map[string]any)
	require.Equal(t, "image_url", image["type"])
	imageURL := image["image_url"].(map[string]any)
	require.Equal(t, "data:image/png;base64,aGVsbG8=", imageURL["url"])
	require.Equal(t, "high", imageURL["detail"])

	prompt := parts[1].(map[string]any)
	require.Contains(t, prompt["text"], "Analyze this bathroom.")
	require.Contains(t, prompt["text"], "COSMETIC rehab")
}

func TestAnalyzePhotosHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad-key", BaseURL: server.URL}, newTestLogger())
	_, err := client.AnalyzePhotos(context.Background(), testRequest())

	var httpErr *analysis.ProviderHTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, analysis.ProviderOpenAI, httpErr.Provider)
	require.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	require.Contains(t, httpErr.Body, "invalid_api_key")
}

func TestAnalyzePhotosEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"gpt-4o","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":0}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, newTestLogger())
	_, err := client.AnalyzePhotos(context.Background(), testRequest())

	var malformed *analysis.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, analysis.ProviderOpenAI, malformed.Provider)
}

func TestAnalyzePhotosUnparseableContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o",
			"choices": [{"message": {"content": "Sorry, I cannot analyze these images."}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 10}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, newTestLogger())
	_, err := client.AnalyzePhotos(context.Background(), testRequest())

	var malformed *analysis.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestAnalyzePhotosTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Advertise more bytes than are written so the client sees the
		// connection drop mid-body.
		w.Header().Set("Content-Length", "500")
		_, _ = w.Write([]byte(`{"model":"gpt-4o","choices":`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, newTestLogger())
	_, err := client.AnalyzePhotos(context.Background(), testRequest())

	require.Error(t, err)
	require.Contains(t, err.Error(), "read openai response")
	var malformed *analysis.MalformedResponseError
	require.False(t, errors.As(err, &malformed))
}

func TestIsAvailableWithoutKey(t *testing.T) {
	client := NewClient(Config{}, newTestLogger())
	require.False(t, client.IsAvailable())
}
