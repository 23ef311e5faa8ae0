//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package history

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const diffHeader = "diff --git "

// FilterDiff removes the sections of a multi-file unified diff whose path
// matches any of the doublestar patterns. Text before the first file header
// is kept as is.
func FilterDiff(diff string, patterns []string) (string, error) {
	if len(patterns) == 0 || diff == "" {
		return diff, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return "", fmt.Errorf("invalid diff exclude pattern %q", p)
		}
	}

	var b strings.Builder
	keep := true
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, diffHeader) {
			keep = !excluded(sectionPath(line), patterns)
		}
		if keep {
			b.WriteString(line)
		}
	}
	return b.String(), nil
}

// sectionPath extracts the post-image path from a "diff --git a/x b/x" header.
func sectionPath(header string) string {
	header = strings.TrimRight(header, "\r\n")
	rest := strings.TrimPrefix(header, diffHeader)
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+len(" b/"):]
	}
	return strings.TrimPrefix(rest, "a/")
}

func excluded(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
