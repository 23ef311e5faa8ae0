//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-git-report/cache"
	"trpc.group/trpc-go/trpc-git-report/config"
	"trpc.group/trpc-go/trpc-git-report/history"
	"trpc.group/trpc-go/trpc-git-report/internal/telemetry"
	"trpc.group/trpc-go/trpc-git-report/log"
	"trpc.group/trpc-go/trpc-git-report/report"
	"trpc.group/trpc-go/trpc-git-report/summarizer"
	"trpc.group/trpc-go/trpc-git-report/workbook"
)

func run(ctx context.Context, stdout io.Writer, cfg config.Config, env environment) (err error) {
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	month, err := report.ResolveMonth(cfg.Month, env.now())
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	restore := log.WithFields("run_id", runID)
	defer restore()

	sum, err := newSummarizer(cfg)
	if err != nil {
		return err
	}
	store, err := cache.Open(cfg.CacheBackend, cfg.CacheFile, cache.WithRunID(runID))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close cache: %w", cerr)
		}
	}()

	builder := &report.Builder{
		Source:     history.NewGit(cfg.RepoPath, history.WithDiffExcludes(cfg.DiffExcludes)),
		Store:      store,
		Summarizer: sum,
		Pause:      cfg.RateLimitPause,
	}
	counter := telemetry.NewCounter()
	ctx = telemetry.WithCommitObserver(ctx, counter.Observe)

	log.Infof("building report author=%s month=%s llm=%s", cfg.Author, month, cfg.LLM)
	daily, err := builder.Build(ctx, cfg.Author, month)
	if err != nil {
		return err
	}
	log.Infow("processed commits", append([]any{"days", len(daily)}, counter.Snapshot()...)...)

	path, err := workbook.Write(daily, month, cfg.OutputDir)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Generated: %s\n", path)
	return err
}

func newSummarizer(cfg config.Config) (summarizer.Summarizer, error) {
	p := cfg.Provider()
	opts := summarizer.Options{
		Model:       p.Model,
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		Temperature: p.Temperature,
		MaxRetries:  cfg.MaxRetries,
		Timeout:     cfg.RequestTimeout,
	}
	if cfg.PromptTemplate != "" {
		prompt, err := summarizer.LoadPrompt(cfg.PromptTemplate)
		if err != nil {
			return nil, err
		}
		opts.Prompt = prompt
	}
	return summarizer.New(cfg.LLM, opts)
}
