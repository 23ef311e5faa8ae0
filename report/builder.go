//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-git-report/cache"
	"trpc.group/trpc-go/trpc-git-report/history"
	"trpc.group/trpc-go/trpc-git-report/internal/telemetry"
	"trpc.group/trpc-go/trpc-git-report/log"
	"trpc.group/trpc-go/trpc-git-report/summarizer"
)

// mergePrefix marks merge commits by subject. The match is case-sensitive.
const mergePrefix = "Merge"

// Builder produces the Daily mapping of one author and month.
type Builder struct {
	// Source lists commits and diffs.
	Source history.Source
	// Store persists summaries between runs.
	Store cache.Store
	// Summarizer summarizes commits missing from the store.
	Summarizer summarizer.Summarizer
	// Pause follows every call to a remote summarizer.
	Pause time.Duration
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Build walks the author's history in log order and collects, for each day of
// month, the distinct summaries of non-merge commits. New summaries are
// recorded in the store as soon as they are generated; the full mapping is
// saved once every commit has been processed.
func (b *Builder) Build(ctx context.Context, author, month string) (Daily, error) {
	if b.Source == nil || b.Store == nil || b.Summarizer == nil {
		return nil, errors.New("report builder is missing a source, store or summarizer")
	}
	summaries, err := b.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	commits, err := b.Source.Commits(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	log.Debugf("found %d commits by %s", len(commits), author)

	remote := summarizer.Remote(b.Summarizer)
	daily := make(Daily)
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(c.Date, month) {
			telemetry.Notify(ctx, c.Hash, telemetry.OutcomeSkippedMonth)
			continue
		}
		if strings.HasPrefix(c.Subject, mergePrefix) {
			telemetry.Notify(ctx, c.Hash, telemetry.OutcomeSkippedMerge)
			continue
		}

		summary, ok := summaries[c.Hash]
		if ok {
			telemetry.Notify(ctx, c.Hash, telemetry.OutcomeCached)
		} else {
			summary, err = b.generate(ctx, c, remote)
			if err != nil {
				return nil, err
			}
			summaries[c.Hash] = summary
			telemetry.Notify(ctx, c.Hash, telemetry.OutcomeGenerated)
		}

		if !daily.add(c.Date, summary) {
			telemetry.Notify(ctx, c.Hash, telemetry.OutcomeDuplicate)
		}
	}

	if err := b.Store.Save(summaries); err != nil {
		return nil, fmt.Errorf("save cache: %w", err)
	}
	return daily, nil
}

func (b *Builder) generate(ctx context.Context, c history.Commit, remote bool) (string, error) {
	log.Infof("summarizing %s %s", c.Hash, c.Subject)
	diff, err := b.Source.Diff(ctx, c.Hash)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", c.Hash, err)
	}
	summary, err := b.Summarizer.Summarize(ctx, diff, c.Subject)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", c.Hash, err)
	}
	if summary == "" {
		log.Warnf("empty summary for %s %s", c.Hash, c.Subject)
	}
	if err := b.Store.Put(c.Hash, summary); err != nil {
		return "", fmt.Errorf("record summary %s: %w", c.Hash, err)
	}
	if remote && b.Pause > 0 {
		if err := b.sleep(ctx, b.Pause); err != nil {
			return "", err
		}
	}
	return summary, nil
}

func (b *Builder) sleep(ctx context.Context, d time.Duration) error {
	if b.Sleep != nil {
		return b.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
