//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package config defines the report generator configuration.
//
// Values are resolved once at startup in this order: DefaultConfig, an optional
// YAML file, provider environment variables, then explicitly set command line
// flags. Components below this package receive plain values and never read the
// environment themselves.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-git-report/cache"
	"trpc.group/trpc-go/trpc-git-report/report"
	"trpc.group/trpc-go/trpc-git-report/summarizer"
)

// Provider names understood by the summarizer registry.
const (
	ProviderGemini    = summarizer.ProviderGemini
	ProviderOpenAI    = summarizer.ProviderOpenAI
	ProviderAnthropic = summarizer.ProviderAnthropic
	ProviderOllama    = summarizer.ProviderOllama
	ProviderLocal     = summarizer.ProviderLocal
)

// Cache backends.
const (
	CacheBackendJSON   = cache.BackendJSON
	CacheBackendSQLite = cache.BackendSQLite
)

// MonthAuto selects the current calendar month.
const MonthAuto = report.MonthAuto

// ProviderConfig configures one summarization provider.
type ProviderConfig struct {
	// Model is the model identifier passed to the provider.
	Model string `yaml:"model"`
	// APIKey authenticates against remote providers.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the provider endpoint. For ollama it is the server host.
	BaseURL string `yaml:"base_url"`
	// Temperature is the sampling temperature; nil leaves the provider default.
	Temperature *float64 `yaml:"temperature"`
}

// Config holds all settings of one report run.
type Config struct {
	// Author is the git author filter.
	Author string `yaml:"author"`
	// Month is YYYY-MM or "auto".
	Month string `yaml:"month"`
	// LLM names the summarization provider.
	LLM string `yaml:"llm"`
	// RepoPath is the git repository directory.
	RepoPath string `yaml:"repo"`
	// CacheFile is the summary cache location.
	CacheFile string `yaml:"cache_file"`
	// CacheBackend is json or sqlite.
	CacheBackend string `yaml:"cache_backend"`
	// OutputDir receives the generated workbook.
	OutputDir string `yaml:"output_dir"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// PromptTemplate is an optional text/template file replacing the built-in prompt.
	PromptTemplate string `yaml:"prompt_template"`
	// DiffExcludes lists doublestar patterns of paths dropped from diffs.
	DiffExcludes []string `yaml:"diff_excludes"`
	// RateLimitPause is the pause after every remote summarization call.
	RateLimitPause time.Duration `yaml:"rate_limit_pause"`
	// RequestTimeout bounds each provider call; zero means no timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxRetries is the SDK retry budget per provider call.
	MaxRetries int `yaml:"max_retries"`
	// Providers holds per provider settings keyed by provider name.
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// DefaultConfig returns a ready-to-run default configuration.
func DefaultConfig() Config {
	cfg := Config{
		Author:         "siraj",
		Month:          MonthAuto,
		LLM:            ProviderGemini,
		RepoPath:       ".",
		CacheFile:      "commit_cache.json",
		CacheBackend:   CacheBackendJSON,
		OutputDir:      "daily_reports",
		LogLevel:       "info",
		RateLimitPause: time.Second,
	}
	cfg.fillProviderDefaults()
	return cfg
}

func defaultProviders() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		ProviderGemini: {
			Model: "gemini-flash-latest",
		},
		ProviderOpenAI: {
			Model:       "gpt-4o-mini",
			Temperature: floatPtr(0.2),
		},
		ProviderAnthropic: {
			Model:       "claude-3-5-haiku-latest",
			Temperature: floatPtr(0.2),
		},
		ProviderOllama: {
			Model:   "llama3.2",
			BaseURL: "http://127.0.0.1:11434",
		},
	}
}

// fillProviderDefaults completes provider entries that a config file only
// partially specified.
func (c *Config) fillProviderDefaults() {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	for name, def := range defaultProviders() {
		p := c.Providers[name]
		if p.Model == "" {
			p.Model = def.Model
		}
		if p.BaseURL == "" {
			p.BaseURL = def.BaseURL
		}
		if p.Temperature == nil && def.Temperature != nil {
			p.Temperature = floatPtr(*def.Temperature)
		}
		c.Providers[name] = p
	}
}

// Load reads a YAML config file on top of DefaultConfig. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse YAML config %s: %w", path, err)
	}
	cfg.fillProviderDefaults()
	return cfg, nil
}

// APIKeyEnv returns the environment variable holding the API key of provider,
// or "" when the provider needs none.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// ApplyEnv overlays environment values for the selected provider only.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	p := c.Providers[c.LLM]
	if name := APIKeyEnv(c.LLM); name != "" {
		if v := getenv(name); v != "" {
			p.APIKey = v
		}
	}
	if c.LLM == ProviderOllama {
		if v := getenv("OLLAMA_HOST"); v != "" {
			p.BaseURL = v
		}
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	c.Providers[c.LLM] = p
}

// Provider returns the settings of the selected provider.
func (c Config) Provider() ProviderConfig {
	return c.Providers[c.LLM]
}

// Validate returns every problem found in the config.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Author == "" {
		result = multierror.Append(result, errors.New("author is empty"))
	}
	if c.Month == "" {
		result = multierror.Append(result, errors.New("month is empty"))
	}
	if c.LLM == "" {
		result = multierror.Append(result, errors.New("llm provider is empty"))
	}
	if c.RepoPath == "" {
		result = multierror.Append(result, errors.New("repo path is empty"))
	}
	if c.CacheFile == "" {
		result = multierror.Append(result, errors.New("cache file is empty"))
	}
	if c.CacheBackend != CacheBackendJSON && c.CacheBackend != CacheBackendSQLite {
		result = multierror.Append(result, fmt.Errorf("unknown cache backend %q (want %s or %s)",
			c.CacheBackend, CacheBackendJSON, CacheBackendSQLite))
	}
	if c.OutputDir == "" {
		result = multierror.Append(result, errors.New("output dir is empty"))
	}
	if c.RateLimitPause < 0 {
		result = multierror.Append(result, fmt.Errorf("rate limit pause must not be negative: %s", c.RateLimitPause))
	}
	if c.RequestTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("max retries must not be negative: %d", c.MaxRetries))
	}
	for _, pattern := range c.DiffExcludes {
		if !doublestar.ValidatePattern(pattern) {
			result = multierror.Append(result, fmt.Errorf("invalid diff exclude pattern %q", pattern))
		}
	}
	return result.ErrorOrNil()
}

func floatPtr(v float64) *float64 {
	return &v
}
