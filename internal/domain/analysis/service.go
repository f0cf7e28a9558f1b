package analysis

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	apperrors "github.com/rehabscope/rehabscope/pkg/errors"
)

// Config tunes the analysis facade.
type Config struct {
	// ResultTTL bounds how long a stored assessment stays readable.
	ResultTTL time.Duration
}

// Service is the single entry point the rest of the application calls.
type Service interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	GetResult(ctx context.Context, id string) (Result, error)
}

type service struct {
	cfg      Config
	registry *Registry
	store    ResultStore
	logger   *slog.Logger

	// tokenCounter estimates prompt tokens when a provider reports no
	// usage; swapped out in tests.
	tokenCounter func(string) int
	counterOnce  sync.Once
}

// NewService wires the analysis facade.
func NewService(cfg Config, registry *Registry, store ResultStore, logger *slog.Logger) Service {
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &service{
		cfg:      cfg,
		registry: registry,
		store:    store,
		logger:   logger.With("component", "analysis.service"),
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	start := time.Now()
	s.logger.Info("analysis.start",
		"room_type", req.RoomType,
		"rehab_level", req.RehabLevel,
		"photos", len(req.Photos),
		"year_built", req.PropertyContext.YearBuilt,
		"primary", s.registry.Primary(),
	)

	result, err := s.registry.Analyze(ctx, req)
	if err != nil {
		s.logger.Error("analysis.failed",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, err
	}

	result.ID = uuid.New().String()
	if result.TokensUsed == 0 {
		// Provider gave no usage block; estimate from the prompt text so
		// telemetry is never empty.
		prompt := BuildAnalysisPrompt(req.RoomType, req.RehabLevel, req.PropertyContext.YearBuilt, req.PreviousAnalyses)
		result.TokensUsed = s.countTokens(SystemPrompt + prompt)
	}

	if s.store != nil {
		if err := s.store.SaveResult(ctx, result, s.cfg.ResultTTL); err != nil {
			s.logger.Warn("analysis.result_store_save_failed", "id", result.ID, "error", err)
		}
	}

	s.logger.Info("analysis.ok",
		"id", result.ID,
		"provider", result.Provider,
		"condition_score", result.ConditionScore,
		"observations", len(result.Observations),
		"suggested_repairs", len(result.SuggestedRepairs),
		"tokens_used", result.TokensUsed,
		"latency_ms", result.LatencyMs,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *service) GetResult(ctx context.Context, id string) (Result, error) {
	if strings.TrimSpace(id) == "" {
		return Result{}, apperrors.Wrap("invalid_input", "analysis id cannot be empty", nil)
	}
	result, found, err := s.store.GetResult(ctx, id)
	if err != nil {
		return Result{}, apperrors.Wrap("analysis_error", "result lookup failed", err)
	}
	if !found {
		return Result{}, apperrors.Wrap("not_found", "analysis not found", nil)
	}
	return result, nil
}

func (s *service) countTokens(text string) int {
	s.counterOnce.Do(func() {
		if s.tokenCounter != nil {
			return
		}
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			s.logger.Warn("analysis.token_encoding_unavailable", "error", err)
			s.tokenCounter = func(t string) int { return len(t) / 4 }
			return
		}
		s.tokenCounter = func(t string) int { return len(enc.Encode(t, nil, nil)) }
	})
	return s.tokenCounter(text)
}

func validateRequest(req Request) error {
	if len(req.Photos) == 0 {
		return apperrors.Wrap("invalid_input", "at least one photo is required", nil)
	}
	for _, photo := range req.Photos {
		if strings.TrimSpace(photo.Base64) == "" {
			return apperrors.Wrap("invalid_input", "photo data cannot be empty", nil)
		}
		if !AllowedMimeType(photo.MimeType) {
			return apperrors.Wrap("invalid_input", "unsupported photo mime type: "+photo.MimeType, nil)
		}
	}
	if strings.TrimSpace(string(req.RoomType)) == "" {
		return apperrors.Wrap("invalid_input", "room type is required", nil)
	}
	if strings.TrimSpace(req.PropertyContext.ZipCode) == "" {
		return apperrors.Wrap("invalid_input", "property zip code is required", nil)
	}
	switch req.RehabLevel {
	case RehabCosmetic, RehabModerate, RehabFullGut:
	default:
		return apperrors.Wrap("invalid_input", "unknown rehab level: "+string(req.RehabLevel), nil)
	}
	return nil
}
