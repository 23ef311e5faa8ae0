//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package cache persists commit summaries keyed by commit hash so a commit is
// summarized at most once across runs.
package cache

import (
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store is a persistent hash to summary mapping.
type Store interface {
	// Load returns every persisted summary. A store that was never written
	// returns an empty mapping.
	Load() (map[string]string, error)
	// Put durably records one freshly generated summary.
	Put(hash, summary string) error
	// Save persists the full mapping.
	Save(summaries map[string]string) error
	// Close releases resources held by the store.
	Close() error
}

type options struct {
	runID string
	now   func() time.Time
}

// Option configures a Store.
type Option func(*options)

// WithRunID tags records written by Put with the id of the current run.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open returns the store for backend located at path.
func Open(backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path, opts...), nil
	case BackendSQLite:
		return NewSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
