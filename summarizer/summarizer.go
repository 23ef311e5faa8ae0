//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package summarizer turns a commit diff and message into a short description
// of the functional change, backed by a selectable language model provider.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderLocal     = "local"
)

var (
	// ErrMissingAPIKey is returned by the first call of a remote provider
	// that was configured without credentials.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrUnknownProvider is returned by New for unregistered provider names.
	ErrUnknownProvider = errors.New("unknown summarizer provider")
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("provider returned an empty summary")
)

// Summarizer produces a short functional summary of a commit.
type Summarizer interface {
	Summarize(ctx context.Context, diff, message string) (string, error)
}

// Options configures a provider.
type Options struct {
	// Model overrides the provider's model.
	Model string
	// APIKey authenticates remote providers.
	APIKey string
	// BaseURL overrides the provider endpoint.
	BaseURL string
	// Temperature is the sampling temperature; nil keeps the provider default.
	Temperature *float64
	// MaxRetries is the SDK retry budget. Zero disables retries.
	MaxRetries int
	// Timeout bounds a single call. Zero means no timeout.
	Timeout time.Duration
	// Prompt renders the request text. Nil selects DefaultPrompt.
	Prompt *Prompt
	// HTTPClient overrides the HTTP client used by SDKs.
	HTTPClient *http.Client
}

func (o Options) prompt() *Prompt {
	if o.Prompt == nil {
		return DefaultPrompt()
	}
	return o.Prompt
}

// Factory builds a provider from options.
type Factory func(opts Options) (Summarizer, error)

var factories = map[string]Factory{
	ProviderGemini:    func(o Options) (Summarizer, error) { return NewGemini(o), nil },
	ProviderOpenAI:    func(o Options) (Summarizer, error) { return NewOpenAI(o), nil },
	ProviderAnthropic: func(o Options) (Summarizer, error) { return NewAnthropic(o), nil },
	ProviderOllama:    func(o Options) (Summarizer, error) { return NewOllama(o) },
	ProviderLocal:     func(Options) (Summarizer, error) { return NewLocal(), nil },
}

// New returns the provider registered under name.
func New(name string, opts Options) (Summarizer, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
	return f(opts)
}

// Names lists the registered provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remote reports whether s talks to a network service. Summarizers that do not
// say otherwise are treated as remote.
func Remote(s Summarizer) bool {
	if r, ok := s.(interface{ Remote() bool }); ok {
		return r.Remote()
	}
	return true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
