//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package log provides the project-wide structured logger.
//
// Log lines go to stderr so that stdout stays reserved for command results.
package log

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across the project.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Infow(msg string, keysAndValues ...any)
}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	// Default is the logger used by the package level helpers.
	Default Logger = newLogger(zapcore.AddSync(os.Stderr))
)

func newLogger(ws zapcore.WriteSyncer) *zap.SugaredLogger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// SetLevel changes the minimum enabled level. Accepted values are
// debug, info, warn and error.
func SetLevel(name string) error {
	var l zapcore.Level
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		l = zapcore.DebugLevel
	case "", "info":
		l = zapcore.InfoLevel
	case "warn", "warning":
		l = zapcore.WarnLevel
	case "error":
		l = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	level.SetLevel(l)
	return nil
}

// WithFields adds keysAndValues to every later line logged through the package
// helpers and returns a function restoring the previous logger.
func WithFields(keysAndValues ...any) (restore func()) {
	prev := Default
	if s, ok := prev.(*zap.SugaredLogger); ok {
		Default = s.With(keysAndValues...)
	}
	return func() {
		Default = prev
	}
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Infow logs msg at info level with structured key value pairs.
func Infow(msg string, keysAndValues ...any) { Default.Infow(msg, keysAndValues...) }
