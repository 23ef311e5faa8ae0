//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaModel = "llama3.2"
	defaultOllamaHost  = "http://127.0.0.1:11434"
)

// Ollama summarizes through a local or remote Ollama server.
type Ollama struct {
	opts   Options
	client *api.Client
}

// NewOllama returns an Ollama summarizer for the host in opts.BaseURL.
func NewOllama(opts Options) (*Ollama, error) {
	opts.Model = firstNonEmpty(opts.Model, defaultOllamaModel)
	host := firstNonEmpty(opts.BaseURL, defaultOllamaHost)
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Ollama{opts: opts, client: api.NewClient(base, httpClient)}, nil
}

// Remote reports true; the server is reached over HTTP even when local.
func (*Ollama) Remote() bool { return true }

// Summarize implements Summarizer.
func (s *Ollama) Summarize(ctx context.Context, diff, message string) (string, error) {
	prompt, err := s.opts.prompt().Render(message, diff)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  s.opts.Model,
		Prompt: prompt,
		Stream: &stream,
	}
	if s.opts.Temperature != nil {
		req.Options = map[string]any{"temperature": *s.opts.Temperature}
	}
	var b strings.Builder
	err = s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return text, nil
}
