//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package summarizer

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

const defaultPromptText = `Commit Message: "{{.Message}}"
Summarize the FUNCTIONAL change in 3–8 words.
Ignore formatting/imports.
Diff:
{{.Diff}}
`

// Prompt renders the request sent to a provider.
type Prompt struct {
	tmpl *template.Template
}

type promptData struct {
	Message string
	Diff    string
}

var defaultPrompt = template.Must(template.New("prompt").Option("missingkey=error").Parse(defaultPromptText))

// DefaultPrompt returns the built-in prompt.
func DefaultPrompt() *Prompt {
	return &Prompt{tmpl: defaultPrompt}
}

// ParsePrompt compiles a custom prompt. The template sees .Message and .Diff.
func ParsePrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// LoadPrompt reads and compiles a prompt template file.
func LoadPrompt(path string) (*Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return ParsePrompt(string(data))
}

// Render fills the prompt for one commit.
func (p *Prompt) Render(message, diff string) (string, error) {
	var b strings.Builder
	if err := p.tmpl.Execute(&b, promptData{Message: message, Diff: diff}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
