//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-git-report/cache"
	"trpc.group/trpc-go/trpc-git-report/report"
	"trpc.group/trpc-go/trpc-git-report/summarizer"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "siraj", cfg.Author)
	assert.Equal(t, MonthAuto, cfg.Month)
	assert.Equal(t, ProviderGemini, cfg.LLM)
	assert.Equal(t, "commit_cache.json", cfg.CacheFile)
	assert.Equal(t, "daily_reports", cfg.OutputDir)
	assert.Equal(t, time.Second, cfg.RateLimitPause)
	assert.Equal(t, "gemini-flash-latest", cfg.Provider().Model)

	openai := cfg.Providers[ProviderOpenAI]
	require.NotNil(t, openai.Temperature)
	assert.InDelta(t, 0.2, *openai.Temperature, 1e-9)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAMLMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitreport.yaml")
	content := `author: alice
llm: openai
rate_limit_pause: 250ms
diff_excludes:
  - "**/*.lock"
providers:
  openai:
    api_key: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Author)
	assert.Equal(t, ProviderOpenAI, cfg.LLM)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitPause)
	assert.Equal(t, []string{"**/*.lock"}, cfg.DiffExcludes)
	assert.Equal(t, "daily_reports", cfg.OutputDir)

	p := cfg.Provider()
	assert.Equal(t, "from-file", p.APIKey)
	assert.Equal(t, "gpt-4o-mini", p.Model, "partially specified provider keeps default model")
	require.NotNil(t, p.Temperature)
	assert.InDelta(t, 0.2, *p.Temperature, 1e-9)
	assert.Equal(t, "gemini-flash-latest", cfg.Providers[ProviderGemini].Model)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autor: typo\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitreport.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOnlyTouchesSelectedProvider(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEY": "gemini-key",
		"OPENAI_API_KEY": "openai-key",
	}
	getenv := func(k string) string { return env[k] }

	cfg := DefaultConfig()
	cfg.LLM = ProviderOpenAI
	cfg.ApplyEnv(getenv)

	assert.Equal(t, "openai-key", cfg.Provider().APIKey)
	assert.Empty(t, cfg.Providers[ProviderGemini].APIKey)
}

func TestApplyEnvKeepsFileValueWhenUnset(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Providers[ProviderGemini]
	p.APIKey = "from-file"
	cfg.Providers[ProviderGemini] = p

	cfg.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, "from-file", cfg.Provider().APIKey)
}

func TestApplyEnvOllamaHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM = ProviderOllama
	cfg.ApplyEnv(func(k string) string {
		if k == "OLLAMA_HOST" {
			return "http://gpu-box:11434"
		}
		return ""
	})
	assert.Equal(t, "http://gpu-box:11434", cfg.Provider().BaseURL)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Author = ""
	cfg.CacheBackend = "redis"
	cfg.RateLimitPause = -time.Second
	cfg.DiffExcludes = []string{"[unclosed"}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "author is empty")
	assert.Contains(t, msg, `unknown cache backend "redis"`)
	assert.Contains(t, msg, "rate limit pause must not be negative")
	assert.Contains(t, msg, `invalid diff exclude pattern "[unclosed"`)
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "GEMINI_API_KEY", APIKeyEnv(ProviderGemini))
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnv(ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", APIKeyEnv(ProviderAnthropic))
	assert.Empty(t, APIKeyEnv(ProviderLocal))
	assert.Empty(t, APIKeyEnv(ProviderOllama))
}

func TestDefaultsAreAcceptedByComponents(t *testing.T) {
	cfg := DefaultConfig()

	for _, name := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderLocal} {
		assert.Contains(t, summarizer.Names(), name)
		_, ok := cfg.Providers[name]
		assert.True(t, ok || name == ProviderLocal, name)
	}

	for _, backend := range []string{CacheBackendJSON, CacheBackendSQLite} {
		store, err := cache.Open(backend, filepath.Join(t.TempDir(), "cache"))
		require.NoError(t, err, backend)
		require.NoError(t, store.Close())
	}

	month, err := report.ResolveMonth(cfg.Month, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-06", month)
}
