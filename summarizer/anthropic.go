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

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel       = "claude-3-5-haiku-latest"
	defaultAnthropicTemperature = 0.2
	anthropicMaxTokens          = 64
)

// Anthropic summarizes through the messages API.
type Anthropic struct {
	opts Options

	mu     sync.Mutex
	client *anthropic.Client
}

// NewAnthropic returns an Anthropic summarizer. The SDK client is created on first use.
func NewAnthropic(opts Options) *Anthropic {
	opts.Model = firstNonEmpty(opts.Model, defaultAnthropicModel)
	if opts.Temperature == nil {
		t := defaultAnthropicTemperature
		opts.Temperature = &t
	}
	return &Anthropic{opts: opts}
}

// Remote reports true.
func (*Anthropic) Remote() bool { return true }

func (s *Anthropic) getClient() (*anthropic.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w (set ANTHROPIC_API_KEY)", ErrMissingAPIKey)
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(s.opts.APIKey),
		option.WithMaxRetries(s.opts.MaxRetries),
	}
	if s.opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.opts.BaseURL))
	}
	if s.opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(s.opts.HTTPClient))
	}
	client := anthropic.NewClient(reqOpts...)
	s.client = &client
	return s.client, nil
}

// Summarize implements Summarizer.
func (s *Anthropic) Summarize(ctx context.Context, diff, message string) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}
	prompt, err := s.opts.prompt().Render(message, diff)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.opts.Model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(*s.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text, nil
}
