//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"trpc.group/trpc-go/trpc-git-report/config"
)

// flagValues mirrors the command line. Only flags the user actually set
// override the configuration file.
type flagValues struct {
	configPath   string
	author       string
	month        string
	llm          string
	model        string
	repo         string
	cacheFile    string
	cacheBackend string
	outputDir    string
	logLevel     string
}

type environment struct {
	getenv func(string) string
	now    func() time.Time
}

// NewRootCmd constructs the gitreport command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(environment{getenv: os.Getenv, now: time.Now})
}

func newRootCmd(env environment) *cobra.Command {
	defaults := config.DefaultConfig()
	var flags flagValues

	cmd := &cobra.Command{
		Use:   "gitreport",
		Short: "Generate a monthly work report from git history",
		Long: "gitreport lists the commits of an author, summarizes each one with a language model,\n" +
			"deduplicates the summaries per day and writes them to an xlsx workbook.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), flags, env)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, env)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "optional YAML configuration file")
	f.StringVar(&flags.author, "author", defaults.Author, "git author filter")
	f.StringVar(&flags.month, "month", defaults.Month, "month to report, YYYY-MM or auto for the current month")
	f.StringVar(&flags.llm, "llm", defaults.LLM, "summarizer provider: gemini, openai, anthropic, ollama or local")
	f.StringVar(&flags.model, "model", "", "model override for the selected provider")
	f.StringVar(&flags.repo, "repo", defaults.RepoPath, "git repository directory")
	f.StringVar(&flags.cacheFile, "cache-file", defaults.CacheFile, "summary cache location")
	f.StringVar(&flags.cacheBackend, "cache-backend", defaults.CacheBackend, "summary cache backend: json or sqlite")
	f.StringVar(&flags.outputDir, "output-dir", defaults.OutputDir, "directory receiving the workbook")
	f.StringVar(&flags.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	return cmd
}

// loadConfig layers defaults, the config file, the environment and the flags
// that were set explicitly.
func loadConfig(fs *pflag.FlagSet, flags flagValues, env environment) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	// The provider must be known before the environment is read.
	if fs.Changed("llm") {
		cfg.LLM = flags.llm
	}
	cfg.ApplyEnv(env.getenv)

	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("author", &cfg.Author, flags.author)
	set("month", &cfg.Month, flags.month)
	set("repo", &cfg.RepoPath, flags.repo)
	set("cache-file", &cfg.CacheFile, flags.cacheFile)
	set("cache-backend", &cfg.CacheBackend, flags.cacheBackend)
	set("output-dir", &cfg.OutputDir, flags.outputDir)
	set("log-level", &cfg.LogLevel, flags.logLevel)
	if fs.Changed("model") {
		p := cfg.Providers[cfg.LLM]
		p.Model = flags.model
		cfg.Providers[cfg.LLM] = p
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
