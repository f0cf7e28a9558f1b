package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	AI    AIConfig    `yaml:"ai"`
	Costs CostsConfig `yaml:"costs"`
	Cache CacheConfig `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AIConfig selects and tunes the vision providers.
type AIConfig struct {
	// PrimaryProvider names the adapter that handles requests first.
	// The other registered adapter becomes the failover target.
	PrimaryProvider string         `yaml:"primaryProvider"`
	ResultTTL       time.Duration  `yaml:"resultTtl"`
	Claude          ProviderConfig `yaml:"claude"`
	OpenAI          ProviderConfig `yaml:"openai"`
}

// ProviderConfig holds one adapter's credentials and tuning.
type ProviderConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// CostsConfig points at the cost table persistence layer.
type CostsConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig controls the shared analysis result store.
type CacheConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the result cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("AI_PRIMARY_PROVIDER"); v != "" {
		cfg.AI.PrimaryProvider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("AI_RESULT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.AI.ResultTTL = parsed
		}
	}
	if v := os.Getenv("CLAUDE_API_KEY"); v != "" {
		cfg.AI.Claude.APIKey = v
	}
	if v := os.Getenv("CLAUDE_BASE_URL"); v != "" {
		cfg.AI.Claude.BaseURL = v
	}
	if v := os.Getenv("CLAUDE_MODEL"); v != "" {
		cfg.AI.Claude.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.OpenAI.Model = v
	}
	if v := os.Getenv("COSTS_DB_DSN"); v != "" {
		cfg.Costs.Postgres.DSN = v
	}
	if v := os.Getenv("COSTS_DB_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Costs.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("COSTS_DB_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Costs.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address: ":8080",
			// Vision calls can run long, so write timeout stays generous.
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 150 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		AI: AIConfig{
			PrimaryProvider: "claude",
			ResultTTL:       24 * time.Hour,
			Claude: ProviderConfig{
				Model:   "claude-sonnet-4-20250514",
				Timeout: 60 * time.Second,
			},
			OpenAI: ProviderConfig{
				Model:   "gpt-4o",
				Timeout: 60 * time.Second,
			},
		},
		Costs: CostsConfig{
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Cache: CacheConfig{
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 {
		return errors.New("http.readTimeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		return errors.New("http.writeTimeout must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.AI.PrimaryProvider {
	case "claude", "openai":
	default:
		return fmt.Errorf("ai.primaryProvider must be claude or openai, got %q", c.AI.PrimaryProvider)
	}
	if c.AI.ResultTTL < 0 {
		return errors.New("ai.resultTtl cannot be negative")
	}
	if c.AI.Claude.Timeout <= 0 || c.AI.OpenAI.Timeout <= 0 {
		return errors.New("provider timeouts must be positive")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	return nil
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
