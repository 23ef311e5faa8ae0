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

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultOpenAITemperature = 0.2
)

// OpenAI summarizes through the chat completions API.
type OpenAI struct {
	opts Options

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAI returns an OpenAI summarizer. The SDK client is created on first use.
func NewOpenAI(opts Options) *OpenAI {
	opts.Model = firstNonEmpty(opts.Model, defaultOpenAIModel)
	if opts.Temperature == nil {
		t := defaultOpenAITemperature
		opts.Temperature = &t
	}
	return &OpenAI{opts: opts}
}

// Remote reports true.
func (*OpenAI) Remote() bool { return true }

func (s *OpenAI) getClient() (*openai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.opts.APIKey == "" {
		return nil, fmt.Errorf("openai: %w (set OPENAI_API_KEY)", ErrMissingAPIKey)
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
	client := openai.NewClient(reqOpts...)
	s.client = &client
	return s.client, nil
}

// Summarize implements Summarizer.
func (s *OpenAI) Summarize(ctx context.Context, diff, message string) (string, error) {
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

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(*s.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
