//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trpc.group/trpc-go/trpc-git-report/internal/fileutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	hash TEXT PRIMARY KEY,
	summary TEXT NOT NULL,
	run_id TEXT,
	created_at TEXT
);`

const upsert = `
INSERT INTO summaries (hash, summary, run_id, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET summary = excluded.summary`

// SQLiteStore keeps summaries in a SQLite table. Every Put is committed
// immediately.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite cache %s: %w", path, err)
	}
	return &SQLiteStore{db: db, opts: newOptions(opts)}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT hash, summary FROM summaries`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	summaries := make(map[string]string)
	for rows.Next() {
		var hash, summary string
		if err := rows.Scan(&hash, &summary); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries[hash] = summary
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read summaries: %w", err)
	}
	return summaries, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(hash, summary string) error {
	if hash == "" {
		return errors.New("cache key is empty")
	}
	if _, err := s.db.Exec(upsert, hash, summary, s.opts.runID, s.timestamp()); err != nil {
		return fmt.Errorf("put summary %s: %w", hash, err)
	}
	return nil
}

// Save implements Store by upserting the whole mapping in one transaction.
func (s *SQLiteStore) Save(summaries map[string]string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.Prepare(upsert)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()
	ts := s.timestamp()
	for hash, summary := range summaries {
		if _, err = stmt.Exec(hash, summary, s.opts.runID, ts); err != nil {
			return fmt.Errorf("save summary %s: %w", hash, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) timestamp() string {
	return s.opts.now().UTC().Format(time.RFC3339)
}
