//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-git-report/internal/fileutil"
)

// JournalSuffix is appended to the cache path to name the write-ahead journal.
const JournalSuffix = ".journal"

// JSONStore keeps the mapping in a pretty-printed JSON object. Summaries
// recorded with Put go to an append-only journal next to it until the next
// Save folds them into the main file.
type JSONStore struct {
	path string
	opts options

	mu      sync.Mutex
	journal *os.File
}

type journalRecord struct {
	Hash      string    `json:"hash"`
	Summary   string    `json:"summary"`
	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJSONStore returns a store backed by the JSON file at path.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	return &JSONStore{path: path, opts: newOptions(opts)}
}

// Path returns the location of the JSON file.
func (s *JSONStore) Path() string {
	return s.path
}

// JournalPath returns the location of the journal.
func (s *JSONStore) JournalPath() string {
	return s.path + JournalSuffix
}

// Load implements Store. Journal records override entries of the JSON file.
func (s *JSONStore) Load() (map[string]string, error) {
	summaries := make(map[string]string)
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read cache %s: %w", s.path, err)
	default:
		if err := json.Unmarshal(data, &summaries); err != nil {
			return nil, fmt.Errorf("parse cache %s: %w", s.path, err)
		}
		if summaries == nil {
			summaries = make(map[string]string)
		}
	}
	if err := s.replay(summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *JSONStore) replay(summaries map[string]string) error {
	data, err := os.ReadFile(s.JournalPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache journal: %w", err)
	}
	for lineNo := 1; len(data) > 0; lineNo++ {
		line := data
		terminated := false
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
			terminated = true
		} else {
			data = nil
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec journalRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			if !terminated {
				// Interrupted while appending the last record.
				return nil
			}
			return fmt.Errorf("parse cache journal line %d: %w", lineNo, err)
		}
		if rec.Hash == "" {
			return fmt.Errorf("parse cache journal line %d: missing hash", lineNo)
		}
		summaries[rec.Hash] = rec.Summary
	}
	return nil
}

// Put implements Store by appending one record to the journal and syncing it
// to disk.
func (s *JSONStore) Put(hash, summary string) error {
	if hash == "" {
		return errors.New("cache key is empty")
	}
	line, err := json.Marshal(journalRecord{
		Hash:      hash,
		Summary:   summary,
		RunID:     s.opts.runID,
		CreatedAt: s.opts.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journal == nil {
		if err := dropPartialRecord(s.JournalPath()); err != nil {
			return err
		}
		f, err := os.OpenFile(s.JournalPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileutil.FilePerm)
		if err != nil {
			return fmt.Errorf("open cache journal: %w", err)
		}
		s.journal = f
	}
	if _, err := s.journal.Write(line); err != nil {
		return fmt.Errorf("append cache journal: %w", err)
	}
	if err := s.journal.Sync(); err != nil {
		return fmt.Errorf("sync cache journal: %w", err)
	}
	return nil
}

// dropPartialRecord truncates the journal at path back to its last complete
// line, so new records never extend a record cut short by a crash.
func dropPartialRecord(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache journal: %w", err)
	}
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return nil
	}
	size := int64(bytes.LastIndexByte(data, '\n') + 1)
	if err := os.Truncate(path, size); err != nil {
		return fmt.Errorf("truncate cache journal: %w", err)
	}
	return nil
}

// Save implements Store. It rewrites the JSON file with 2-space indentation
// and drops the journal once the new file is in place.
func (s *JSONStore) Save(summaries map[string]string) error {
	if summaries == nil {
		summaries = map[string]string{}
	}
	err := fileutil.WriteAtomic(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	})
	if err != nil {
		return fmt.Errorf("save cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.closeJournal(); err != nil {
		return err
	}
	if err := os.Remove(s.JournalPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache journal: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeJournal()
}

func (s *JSONStore) closeJournal() error {
	if s.journal == nil {
		return nil
	}
	err := s.journal.Close()
	s.journal = nil
	if err != nil {
		return fmt.Errorf("close cache journal: %w", err)
	}
	return nil
}
