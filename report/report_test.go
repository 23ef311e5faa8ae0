//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyDates(t *testing.T) {
	d := Daily{
		"2024-06-01": {"a"},
		"2024-06-15": {"b"},
		"2024-06-02": {"c"},
	}
	assert.Equal(t, []string{"2024-06-15", "2024-06-02", "2024-06-01"}, d.Dates())
}

func TestDailyActivity(t *testing.T) {
	d := Daily{"2024-06-01": {"Add retry", "Fix bug"}}
	assert.Equal(t, "Add retry, Fix bug", d.Activity("2024-06-01"))
	assert.Equal(t, "", d.Activity("2024-06-02"))
}

func TestDailyAddDedupesPerDate(t *testing.T) {
	d := Daily{}
	assert.True(t, d.add("2024-06-01", "Add retry"))
	assert.False(t, d.add("2024-06-01", "Add retry"))
	assert.True(t, d.add("2024-06-02", "Add retry"))
	assert.Equal(t, Daily{"2024-06-01": {"Add retry"}, "2024-06-02": {"Add retry"}}, d)
}

func TestResolveMonth(t *testing.T) {
	now := time.Date(2025, time.October, 18, 9, 0, 0, 0, time.UTC)

	got, err := ResolveMonth("auto", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-10", got)

	got, err = ResolveMonth("2024-06", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", got)

	got, err = ResolveMonth("2024-6", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", got)

	got, err = ResolveMonth("2024-1", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", got, "single-digit months are padded so they cannot prefix-match 2024-10..12")

	for _, bad := range []string{"", "2024-13", "2024-00", "2024-0", "2024-006", "24-06", "2024/06", "2024-06-01", "Auto"} {
		_, err := ResolveMonth(bad, now)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}

func TestFileName(t *testing.T) {
	got, err := FileName("2024-06")
	require.NoError(t, err)
	assert.Equal(t, "Work_Report_June_2024.xlsx", got)

	got, err = FileName("2025-10")
	require.NoError(t, err)
	assert.Equal(t, "Work_Report_October_2025.xlsx", got)

	got, err = FileName("2024-6")
	require.NoError(t, err)
	assert.Equal(t, "Work_Report_June_2024.xlsx", got)

	_, err = FileName("June 2024")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
