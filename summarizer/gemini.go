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
	"strings"
	"sync"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-flash-latest"

// Gemini summarizes through the Gemini API.
type Gemini struct {
	opts Options

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini returns a Gemini summarizer. The SDK client is created on first use.
func NewGemini(opts Options) *Gemini {
	opts.Model = firstNonEmpty(opts.Model, defaultGeminiModel)
	return &Gemini{opts: opts}
}

// Remote reports true.
func (*Gemini) Remote() bool { return true }

func (s *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w (set GEMINI_API_KEY)", ErrMissingAPIKey)
	}
	cfg := &genai.ClientConfig{
		APIKey:     s.opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.opts.HTTPClient,
	}
	if s.opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	s.client = client
	return s.client, nil
}

// Summarize implements Summarizer.
func (s *Gemini) Summarize(ctx context.Context, diff, message string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}
	prompt, err := s.opts.prompt().Render(message, diff)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var genCfg *genai.GenerateContentConfig
	if s.opts.Temperature != nil {
		genCfg = &genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(*s.opts.Temperature)),
		}
	}
	resp, err := client.Models.GenerateContent(ctx, s.opts.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}
