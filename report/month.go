//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package report

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// MonthAuto resolves to the current calendar month.
const MonthAuto = "auto"

const (
	monthLayout = "2006-01"
	// inputLayout also accepts single-digit months such as 2024-6.
	inputLayout = "2006-1"
)

// ErrInvalidMonth is returned for month arguments that are not a valid year and month.
var ErrInvalidMonth = errors.New("month must be YYYY-MM, YYYY-M or auto")

var monthPattern = regexp.MustCompile(`^\d{4}-\d{1,2}$`)

// ResolveMonth turns the month argument into a zero-padded YYYY-MM string,
// so 2024-6 becomes 2024-06 and only matches June dates.
func ResolveMonth(arg string, now time.Time) (string, error) {
	if arg == MonthAuto {
		return now.Format(monthLayout), nil
	}
	t, err := parseMonth(arg)
	if err != nil {
		return "", err
	}
	return t.Format(monthLayout), nil
}

// FileName returns the workbook file name for month, e.g.
// Work_Report_October_2025.xlsx.
func FileName(month string) (string, error) {
	t, err := parseMonth(month)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Work_Report_%s_%d.xlsx", t.Month(), t.Year()), nil
}

func parseMonth(month string) (time.Time, error) {
	if !monthPattern.MatchString(month) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	t, err := time.Parse(inputLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return t, nil
}
