//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Command gitreport turns an author's git history for one month into an xlsx
// activity report, summarizing each commit with a language model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
