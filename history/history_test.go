//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog(t *testing.T) {
	raw := "2025-10-03|Fix login bug|a1b2c3d\n" +
		"2025-10-02|feat: a|b pipes|e4f5a6b\r\n" +
		"\n" +
		"2025-09-30||0ff1ce0\n"

	commits, err := ParseLog(raw)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, Commit{Date: "2025-10-03", Subject: "Fix login bug", Hash: "a1b2c3d"}, commits[0])
	assert.Equal(t, Commit{Date: "2025-10-02", Subject: "feat: a|b pipes", Hash: "e4f5a6b"}, commits[1])
	assert.Equal(t, Commit{Date: "2025-09-30", Subject: "", Hash: "0ff1ce0"}, commits[2])
}

func TestParseLogEmpty(t *testing.T) {
	commits, err := ParseLog("")
	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.NotNil(t, commits)
}

func TestParseLogMalformed(t *testing.T) {
	_, err := ParseLog("2025-10-03 no separators here")
	assert.Error(t, err)

	_, err = ParseLog("2025-10-03|only one")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
	assert.Equal(t, "abc", Truncate("abc", -1))

	long := strings.Repeat("x", MaxDiffChars+10)
	assert.Len(t, Truncate(long, MaxDiffChars), MaxDiffChars)
}

func TestFilterDiff(t *testing.T) {
	diff := "diff --git a/go.sum b/go.sum\n" +
		"@@ -1 +1 @@\n" +
		"-old sum\n" +
		"+new sum\n" +
		"diff --git a/internal/app.go b/internal/app.go\n" +
		"@@ -3 +3 @@\n" +
		"-return nil\n" +
		"+return err\n" +
		"diff --git a/vendor/x/y.go b/vendor/x/y.go\n" +
		"+vendored\n"

	got, err := FilterDiff(diff, []string{"go.sum", "vendor/**"})
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/internal/app.go b/internal/app.go\n"+
		"@@ -3 +3 @@\n"+
		"-return nil\n"+
		"+return err\n", got)
}

func TestFilterDiffNoPatterns(t *testing.T) {
	diff := "diff --git a/a.go b/a.go\n+x\n"
	got, err := FilterDiff(diff, nil)
	require.NoError(t, err)
	assert.Equal(t, diff, got)
}

func TestFilterDiffInvalidPattern(t *testing.T) {
	_, err := FilterDiff("diff --git a/a.go b/a.go\n", []string{"[oops"})
	assert.Error(t, err)
}

func TestSectionPath(t *testing.T) {
	assert.Equal(t, "docs/readme.md", sectionPath("diff --git a/docs/readme.md b/docs/readme.md\n"))
	assert.Equal(t, "new name.txt", sectionPath("diff --git a/old name.txt b/new name.txt"))
}
