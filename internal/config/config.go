// Package config loads runtime configuration from built-in defaults, an
// optional TOML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes structured environment overrides.
// OUTILS_GENERATION__MAX_RETRIES maps to generation.max_retries.
const EnvPrefix = "OUTILS_"

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Generation GenerationConfig `koanf:"generation"`
	Resources  ResourcesConfig  `koanf:"resources"`
	Fallback   FallbackConfig   `koanf:"fallback"`
	Database   DatabaseConfig   `koanf:"database"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port                   int      `koanf:"port" validate:"min=1,max=65535"`
	CORSOrigins            []string `koanf:"cors_origins"`
	ShutdownTimeoutSeconds int      `koanf:"shutdown_timeout_seconds" validate:"min=1"`
}

// GenerationConfig configures the generative backend and its reliability policy.
// An empty APIKey disables the backend; every request then uses the fallback.
type GenerationConfig struct {
	APIKey         string  `koanf:"api_key"`
	Model          string  `koanf:"model"`
	ChatModel      string  `koanf:"chat_model"`
	TimeoutSeconds int     `koanf:"timeout_seconds" validate:"min=1,max=120"`
	MaxRetries     int     `koanf:"max_retries" validate:"min=1,max=10"`
	MaxJitterMS    int     `koanf:"max_jitter_ms" validate:"min=0,max=5000"`
	Temperature    float32 `koanf:"temperature" validate:"min=0,max=2"`
	MaxTokens      int32   `koanf:"max_tokens" validate:"min=256"`
}

// ResourcesConfig points at the optional directory holding per-tool
// schemas/, templates/ and fewshots/.
type ResourcesConfig struct {
	Dir string `koanf:"dir"`
}

// FallbackConfig configures the deterministic generator.
type FallbackConfig struct {
	ThresholdsFile string `koanf:"thresholds_file"`
}

// DatabaseConfig configures the legal document store. Empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode  string `koanf:"mode" validate:"oneof=dev prod development production"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Enabled reports whether a generation backend is configured.
func (g GenerationConfig) Enabled() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

// Timeout returns the per-call timeout.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// MaxJitter returns the upper bound of the backoff jitter.
func (g GenerationConfig) MaxJitter() time.Duration {
	return time.Duration(g.MaxJitterMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown bound.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                     8000,
		"server.cors_origins":             []string{"*"},
		"server.shutdown_timeout_seconds": 10,
		"generation.model":                "gemini-2.5-flash",
		"generation.chat_model":           "gemini-2.5-flash-lite",
		"generation.timeout_seconds":      20,
		"generation.max_retries":          3,
		"generation.max_jitter_ms":        500,
		"generation.temperature":          0.3,
		"generation.max_tokens":           4096,
		"log.mode":                        "dev",
		"log.level":                       "info",
	}
}

// legacyEnv maps the unprefixed variable names used by existing deployments.
func legacyEnv() map[string]any {
	out := map[string]any{}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		out["generation.api_key"] = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		out["database.url"] = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			out["server.port"] = port
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		out["server.cors_origins"] = splitList(v)
	}
	return out
}

// Load builds the configuration. Precedence, lowest first: defaults, the TOML
// file at path (if non-empty), legacy env names, OUTILS_ env overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(confmap.Provider(legacyEnv(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns OUTILS_SECTION__KEY into section.key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
