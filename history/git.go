//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Git reads history by running the git executable.
type Git struct {
	repoPath string
	gitPath  string
	excludes []string
}

// Option configures Git.
type Option func(*Git)

// WithGitPath sets the git executable, "git" by default.
func WithGitPath(path string) Option {
	return func(g *Git) {
		g.gitPath = path
	}
}

// WithDiffExcludes drops diff sections of files matching any of the doublestar patterns.
func WithDiffExcludes(patterns []string) Option {
	return func(g *Git) {
		g.excludes = append([]string(nil), patterns...)
	}
}

// NewGit returns a Git source for the repository at repoPath.
func NewGit(repoPath string, opts ...Option) *Git {
	g := &Git{
		repoPath: repoPath,
		gitPath:  "git",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Commits implements Source.
func (g *Git) Commits(ctx context.Context, author string) ([]Commit, error) {
	out, err := g.run(ctx,
		"log",
		"--no-color",
		fmt.Sprintf("--author=%s", author),
		"--date=short",
		"--pretty=format:%ad"+fieldSep+"%s"+fieldSep+"%h",
	)
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	return ParseLog(string(out))
}

// Diff implements Source.
func (g *Git) Diff(ctx context.Context, hash string) (string, error) {
	if strings.TrimSpace(hash) == "" {
		return "", ErrEmptyHash
	}
	out, err := g.run(ctx,
		"show",
		hash,
		"--no-color",
		"--no-ext-diff",
		"--pretty=format:",
		"--unified=0",
	)
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", hash, err)
	}
	diff := string(out)
	if len(g.excludes) > 0 {
		diff, err = FilterDiff(diff, g.excludes)
		if err != nil {
			return "", err
		}
	}
	return Truncate(diff, MaxDiffChars), nil
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	if g.repoPath != "" {
		args = append([]string{"-C", g.repoPath}, args...)
	}
	cmd := exec.CommandContext(ctx, g.gitPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return out, nil
}
