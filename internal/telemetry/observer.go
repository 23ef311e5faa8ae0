//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package telemetry carries per-run observation hooks through a context.
package telemetry

import (
	"context"
	"sort"
	"sync"
)

// Outcome describes what happened to one commit during a report build.
type Outcome string

const (
	// OutcomeSkippedMonth marks a commit outside the target month.
	OutcomeSkippedMonth Outcome = "skipped_month"
	// OutcomeSkippedMerge marks a merge commit.
	OutcomeSkippedMerge Outcome = "skipped_merge"
	// OutcomeCached marks a commit whose summary came from the cache.
	OutcomeCached Outcome = "cached"
	// OutcomeGenerated marks a commit summarized during this run.
	OutcomeGenerated Outcome = "generated"
	// OutcomeDuplicate marks a summary already listed for the same date.
	OutcomeDuplicate Outcome = "duplicate"
)

// CommitObserver receives the outcome of each processed commit.
type CommitObserver func(ctx context.Context, hash string, outcome Outcome)

type commitObserverKey struct{}

// WithCommitObserver injects a commit observer into context.
func WithCommitObserver(ctx context.Context, observer CommitObserver) context.Context {
	if observer == nil {
		return ctx
	}
	return context.WithValue(ctx, commitObserverKey{}, observer)
}

// CommitObserverFromContext returns the commit observer from context if present.
func CommitObserverFromContext(ctx context.Context) CommitObserver {
	if v, ok := ctx.Value(commitObserverKey{}).(CommitObserver); ok {
		return v
	}
	return nil
}

// Notify reports outcome to the observer in ctx, if any.
func Notify(ctx context.Context, hash string, outcome Outcome) {
	if obs := CommitObserverFromContext(ctx); obs != nil {
		obs(ctx, hash, outcome)
	}
}

// Counter tallies outcomes. Its Observe method is a CommitObserver.
type Counter struct {
	mu     sync.Mutex
	counts map[Outcome]int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[Outcome]int)}
}

// Observe records one outcome.
func (c *Counter) Observe(_ context.Context, _ string, outcome Outcome) {
	c.mu.Lock()
	c.counts[outcome]++
	c.mu.Unlock()
}

// Count returns how many times outcome was observed.
func (c *Counter) Count(outcome Outcome) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[outcome]
}

// Snapshot returns a copy of all counts keyed by outcome name, sorted for stable logging.
func (c *Counter) Snapshot() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, c.counts[Outcome(k)])
	}
	return kv
}
