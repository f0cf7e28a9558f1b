package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	"github.com/rehabscope/rehabscope/internal/domain/estimate"
	"github.com/rehabscope/rehabscope/internal/infra/config"
	"github.com/rehabscope/rehabscope/internal/infra/costrepo"
	"github.com/rehabscope/rehabscope/internal/infra/llm/claude"
	"github.com/rehabscope/rehabscope/internal/infra/llm/openai"
	"github.com/rehabscope/rehabscope/internal/infra/resultstore"
)

func provideAnalysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		ResultTTL: cfg.AI.ResultTTL,
	}
}

// provideRegistry registers both vision adapters. Adapters without an API
// key still register so the registry can report them unavailable instead
// of unknown.
func provideRegistry(cfg *config.Config, logger *slog.Logger) (*analysis.Registry, error) {
	registry := analysis.NewRegistry(logger)

	registry.Register(claude.NewClient(claude.Config{
		APIKey:  cfg.AI.Claude.APIKey,
		BaseURL: cfg.AI.Claude.BaseURL,
		Model:   cfg.AI.Claude.Model,
		Timeout: cfg.AI.Claude.Timeout,
	}, logger))

	registry.Register(openai.NewClient(openai.Config{
		APIKey:  cfg.AI.OpenAI.APIKey,
		BaseURL: cfg.AI.OpenAI.BaseURL,
		Model:   cfg.AI.OpenAI.Model,
		Timeout: cfg.AI.OpenAI.Timeout,
	}, logger))

	if err := registry.SetPrimary(analysis.ProviderName(cfg.AI.PrimaryProvider)); err != nil {
		return nil, err
	}
	return registry, nil
}

func provideResultStore(cfg *config.Config, logger *slog.Logger) analysis.ResultStore {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey result store enabled", "addr", cfg.Cache.Valkey.Addr)
			return resultstore.NewValkeyStore(client, "analysis")
		}
	}
	return resultstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideCostSource(cfg *config.Config, logger *slog.Logger) estimate.CostSource {
	fallback := costrepo.NewSeededMemoryRepository()
	dsn := strings.TrimSpace(cfg.Costs.Postgres.DSN)
	if dsn == "" {
		logger.Info("costs postgres dsn not set, using seeded memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using seeded memory repository", "error", err)
		return fallback
	}
	if cfg.Costs.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Costs.Postgres.MaxConns
	}
	if cfg.Costs.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Costs.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using seeded memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using seeded memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("costs postgres repository enabled")
	return costrepo.NewPostgresRepository(pool)
}
