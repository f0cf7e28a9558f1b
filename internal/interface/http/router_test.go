package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	"github.com/rehabscope/rehabscope/internal/domain/estimate"
	"github.com/rehabscope/rehabscope/internal/infra/config"
	apperrors "github.com/rehabscope/rehabscope/pkg/errors"
)

func TestRouter_AnalyzeSuccess(t *testing.T) {
	want := analysis.Result{
		ID:             "r1",
		Provider:       analysis.ProviderClaude,
		ConditionScore: 7,
	}
	analysisSvc := &stubAnalysisService{
		analyzeFn: func(ctx context.Context, req analysis.Request) (analysis.Result, error) {
			require.Equal(t, analysis.RoomKitchen, req.RoomType)
			require.Len(t, req.Photos, 1)
			return want, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses",
		`{"photos":[{"base64":"aGVsbG8=","mimeType":"image/jpeg"}],"roomType":"kitchen","rehabLevel":"moderate","propertyContext":{"zipCode":"60614"}}`,
		newRouterUnderTest(t, analysisSvc, &stubEstimateService{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got analysis.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.ConditionScore, got.ConditionScore)
}

func TestRouter_AnalyzeValidationError(t *testing.T) {
	analysisSvc := &stubAnalysisService{
		analyzeFn: func(ctx context.Context, req analysis.Request) (analysis.Result, error) {
			return analysis.Result{}, apperrors.Wrap("invalid_input", "at least one photo is required", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses", `{"roomType":"kitchen"}`,
		newRouterUnderTest(t, analysisSvc, &stubEstimateService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "photo")
}

func TestRouter_AnalyzeProviderFailure(t *testing.T) {
	analysisSvc := &stubAnalysisService{
		analyzeFn: func(ctx context.Context, req analysis.Request) (analysis.Result, error) {
			return analysis.Result{}, &analysis.ProviderHTTPError{Provider: analysis.ProviderClaude, StatusCode: 529, Body: "overloaded"}
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses",
		`{"photos":[{"base64":"aGVsbG8=","mimeType":"image/jpeg"}],"roomType":"kitchen","rehabLevel":"moderate","propertyContext":{"zipCode":"60614"}}`,
		newRouterUnderTest(t, analysisSvc, &stubEstimateService{}))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "provider_error", errBody["error"]["code"])
}

func TestRouter_AnalyzeNoProviderConfigured(t *testing.T) {
	analysisSvc := &stubAnalysisService{
		analyzeFn: func(ctx context.Context, req analysis.Request) (analysis.Result, error) {
			return analysis.Result{}, analysis.ErrNoPrimaryConfigured
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/analyses",
		`{"photos":[{"base64":"aGVsbG8=","mimeType":"image/jpeg"}],"roomType":"kitchen","rehabLevel":"moderate","propertyContext":{"zipCode":"60614"}}`,
		newRouterUnderTest(t, analysisSvc, &stubEstimateService{}))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "no_provider", errBody["error"]["code"])
}

func TestRouter_GetAnalysis(t *testing.T) {
	analysisSvc := &stubAnalysisService{
		getResultFn: func(ctx context.Context, id string) (analysis.Result, error) {
			if id == "known" {
				return analysis.Result{ID: "known", Provider: analysis.ProviderOpenAI}, nil
			}
			return analysis.Result{}, apperrors.Wrap("not_found", "analysis not found", nil)
		},
	}
	server := newRouterUnderTest(t, analysisSvc, &stubEstimateService{})

	recorder := performRequest(http.MethodGet, "/api/v1/analyses/known", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(http.MethodGet, "/api/v1/analyses/unknown", "", server)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func TestRouter_PriceItems(t *testing.T) {
	estimateSvc := &stubEstimateService{
		priceFn: func(ctx context.Context, suggestions []analysis.SuggestedRepair, zipCode string) ([]estimate.RepairItem, error) {
			require.Equal(t, "60614", zipCode)
			require.Len(t, suggestions, 1)
			return []estimate.RepairItem{
				{ID: "i1", RepairCode: suggestions[0].RepairCode, UnitCost: 4.93, TotalCost: 591.60, IsSelected: true},
			}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/estimates/items",
		`{"zipCode":"60614","suggestedRepairs":[{"repairCode":"FLR-LVP","estimatedQuantity":120,"unit":"SF"}]}`,
		newRouterUnderTest(t, &stubAnalysisService{}, estimateSvc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Items []estimate.RepairItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "FLR-LVP", body.Items[0].RepairCode)
}

func TestRouter_EstimateTotals(t *testing.T) {
	estimateSvc := &stubEstimateService{
		totalsFn: func(items []estimate.RepairItem, contingencyPct float64) estimate.Totals {
			require.Len(t, items, 2)
			require.Equal(t, 10.0, contingencyPct)
			return estimate.Totals{Subtotal: 1000, ContingencyPct: 10, ContingencyAmt: 100, Total: 1100}
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/estimates/totals",
		`{"contingencyPct":10,"lineItems":[{"quantity":1,"unitCost":600,"isSelected":true},{"quantity":2,"unitCost":200,"isSelected":true}]}`,
		newRouterUnderTest(t, &stubAnalysisService{}, estimateSvc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var totals estimate.Totals
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &totals))
	require.Equal(t, 1100.0, totals.Total)
}

func TestRouter_EstimateTotalsContingencyDefaulting(t *testing.T) {
	var gotPct float64
	estimateSvc := &stubEstimateService{
		totalsFn: func(items []estimate.RepairItem, contingencyPct float64) estimate.Totals {
			gotPct = contingencyPct
			return estimate.Totals{ContingencyPct: contingencyPct}
		},
	}
	server := newRouterUnderTest(t, &stubAnalysisService{}, estimateSvc)

	// Omitted field gets the default.
	recorder := performRequest(http.MethodPost, "/api/v1/estimates/totals",
		`{"lineItems":[{"quantity":1,"unitCost":100,"isSelected":true}]}`, server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, estimate.DefaultContingencyPct, gotPct)

	// An explicit zero is passed through, not replaced by the default.
	recorder = performRequest(http.MethodPost, "/api/v1/estimates/totals",
		`{"contingencyPct":0,"lineItems":[{"quantity":1,"unitCost":100,"isSelected":true}]}`, server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 0.0, gotPct)
}

func TestRouter_ReloadCosts(t *testing.T) {
	reloaded := false
	estimateSvc := &stubEstimateService{
		reloadFn: func(ctx context.Context) error {
			reloaded = true
			return nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/admin/costs/reload", "",
		newRouterUnderTest(t, &stubAnalysisService{}, estimateSvc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, reloaded)
}

func TestRouter_Healthz(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "",
		newRouterUnderTest(t, &stubAnalysisService{}, &stubEstimateService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, analysisSvc analysis.Service, estimateSvc estimate.Service) *http.Server {
	t.Helper()
	handler := NewHandler(analysisSvc, estimateSvc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubAnalysisService struct {
	analyzeFn   func(ctx context.Context, req analysis.Request) (analysis.Result, error)
	getResultFn func(ctx context.Context, id string) (analysis.Result, error)
}

func (s *stubAnalysisService) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, req)
	}
	return analysis.Result{}, nil
}

func (s *stubAnalysisService) GetResult(ctx context.Context, id string) (analysis.Result, error) {
	if s.getResultFn != nil {
		return s.getResultFn(ctx, id)
	}
	return analysis.Result{}, nil
}

type stubEstimateService struct {
	priceFn  func(ctx context.Context, suggestions []analysis.SuggestedRepair, zipCode string) ([]estimate.RepairItem, error)
	totalsFn func(items []estimate.RepairItem, contingencyPct float64) estimate.Totals
	reloadFn func(ctx context.Context) error
}

func (s *stubEstimateService) PriceSuggestions(ctx context.Context, suggestions []analysis.SuggestedRepair, zipCode string) ([]estimate.RepairItem, error) {
	if s.priceFn != nil {
		return s.priceFn(ctx, suggestions, zipCode)
	}
	return nil, nil
}

func (s *stubEstimateService) AddUserItem(ctx context.Context, repairCode, description string, quantity float64, unit, zipCode string) (estimate.RepairItem, error) {
	return estimate.RepairItem{}, nil
}

func (s *stubEstimateService) ApplyQuantity(item estimate.RepairItem, quantity float64) estimate.RepairItem {
	return item
}

func (s *stubEstimateService) ApplyUnitCost(item estimate.RepairItem, unitCost float64) estimate.RepairItem {
	return item
}

func (s *stubEstimateService) Totals(items []estimate.RepairItem, contingencyPct float64) estimate.Totals {
	if s.totalsFn != nil {
		return s.totalsFn(items, contingencyPct)
	}
	return estimate.Totals{}
}

func (s *stubEstimateService) ReloadCosts(ctx context.Context) error {
	if s.reloadFn != nil {
		return s.reloadFn(ctx)
	}
	return nil
}
