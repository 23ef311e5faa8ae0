//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package report folds an author's commit history into per-day activity lists.
package report

import (
	"sort"
	"strings"
)

// ActivitySeparator joins the summaries of one day.
const ActivitySeparator = ", "

// StatusCompleted is the status reported for every day.
const StatusCompleted = "Completed"

// Daily maps a YYYY-MM-DD date to its summaries in first-seen order.
type Daily map[string][]string

// Dates returns the dates of d, newest first.
func (d Daily) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Activity returns the summaries of date joined for display.
func (d Daily) Activity(date string) string {
	return strings.Join(d[date], ActivitySeparator)
}

func (d Daily) add(date, summary string) bool {
	for _, s := range d[date] {
		if s == summary {
			return false
		}
	}
	d[date] = append(d[date], summary)
	return true
}
