//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package history reads commit metadata and diffs from version control.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxDiffChars bounds the diff handed to a summarizer.
const MaxDiffChars = 20000

const fieldSep = "|"

// Commit is one entry of an author's history.
type Commit struct {
	// Date is the author date in YYYY-MM-DD form.
	Date string
	// Subject is the first line of the commit message.
	Subject string
	// Hash is the abbreviated commit hash.
	Hash string
}

// Source provides commit history and per-commit diffs.
type Source interface {
	// Commits lists every commit by author across all history, newest first.
	Commits(ctx context.Context, author string) ([]Commit, error)
	// Diff returns the zero-context unified diff of a commit, truncated to MaxDiffChars.
	Diff(ctx context.Context, hash string) (string, error)
}

// ParseLog parses `git log --pretty=format:%ad|%s|%h` output. The date is the
// text before the first separator and the hash the text after the last one,
// so subjects containing the separator survive intact.
func ParseLog(raw string) ([]Commit, error) {
	commits := []Commit{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		first := strings.Index(line, fieldSep)
		last := strings.LastIndex(line, fieldSep)
		if first < 0 || first == last {
			return nil, fmt.Errorf("unexpected git log record: %q", line)
		}
		commits = append(commits, Commit{
			Date:    line[:first],
			Subject: line[first+1 : last],
			Hash:    line[last+1:],
		})
	}
	return commits, nil
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ErrEmptyHash is returned when a diff is requested without a commit hash.
var ErrEmptyHash = errors.New("commit hash is empty")
