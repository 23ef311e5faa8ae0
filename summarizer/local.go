//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package summarizer

import "context"

// Local echoes the commit message without calling any model.
type Local struct{}

// NewLocal returns the offline summarizer.
func NewLocal() *Local {
	return &Local{}
}

// Summarize implements Summarizer.
func (*Local) Summarize(ctx context.Context, _ string, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return message, nil
}

// Remote reports false; Local never leaves the process.
func (*Local) Remote() bool { return false }
