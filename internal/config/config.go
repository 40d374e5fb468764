package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	// Addr is the host:port the HTTP server listens on.
	Addr string `json:"addr,omitempty" env:"DGN_ADDR"`

	// ContentDir is the root holding the collection JSON files
	// (news/news.json, coffee_break/coffee_break.json, ...). It is also
	// the root served under /artifacts/.
	ContentDir string `json:"content_dir,omitempty" env:"DGN_CONTENT_DIR"`

	// TemplatesDir overrides the embedded page templates when set.
	TemplatesDir string `json:"templates_dir,omitempty" env:"DGN_TEMPLATES_DIR"`

	// StaticDir is served under /static/. Missing directories are skipped.
	StaticDir string `json:"static_dir,omitempty" env:"DGN_STATIC_DIR"`

	// VerificationToken is injected into every page for third-party site verification.
	VerificationToken string `json:"verification_token,omitempty" env:"GOOGLE_SITE_VERIFICATION"`

	// CacheContent keeps parsed collections in memory and evicts them when
	// the underlying files change. Off by default: every request re-reads.
	CacheContent bool `json:"cache_content,omitempty" env:"DGN_CACHE_CONTENT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" env:"DGN_LOG_LEVEL"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" env:"DGN_DISABLED_TOOLS"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:       "localhost:8000",
		ContentDir: "artifacts",
		StaticDir:  "static",
		LogLevel:   "info",
	}
}

// Load builds the configuration from defaults, the optional JSON file at
// configPath, and finally environment variables. An empty configPath or a
// missing file means defaults plus environment.
func Load(configPath string) (*Config, error) {
	fileCfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), fileCfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays set environment variables onto cfg. Unset variables
// leave the existing value in place.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.DisabledTools = mergeStringSlice(cfg.DisabledTools, nil)
	return nil
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if strings.TrimSpace(c.ContentDir) == "" {
		return errors.New("content_dir must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Addr = pick(overlay.Addr, base.Addr)
	result.ContentDir = pick(overlay.ContentDir, base.ContentDir)
	result.TemplatesDir = pick(overlay.TemplatesDir, base.TemplatesDir)
	result.StaticDir = pick(overlay.StaticDir, base.StaticDir)
	result.VerificationToken = pick(overlay.VerificationToken, base.VerificationToken)
	result.LogLevel = pick(overlay.LogLevel, base.LogLevel)

	// Booleans: overlay wins if true, else base
	result.CacheContent = base.CacheContent || overlay.CacheContent

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pick returns overlay if non-empty, else base.
func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
