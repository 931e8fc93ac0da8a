// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite record of every generated report file. The
// records themselves are never stored; only what was produced, where, and
// when.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/protocol-reports/pkg/types"
)

const defaultLimit = 50

// Artifact describes one generated file.
type Artifact struct {
	ID         int64              `json:"id" yaml:"id"`
	RequestID  string             `json:"request_id" yaml:"request_id"`
	ReportName string             `json:"report_name" yaml:"report_name"`
	Kind       types.RecordKind   `json:"kind" yaml:"kind"`
	Format     types.DocumentType `json:"format" yaml:"format"`
	Path       string             `json:"path" yaml:"path"`
	Encrypted  bool               `json:"encrypted" yaml:"encrypted"`
	Converted  bool               `json:"converted" yaml:"converted"`
	CreatedAt  time.Time          `json:"created_at" yaml:"created_at"`
}

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the parent
// directory and schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT,
			report_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			format TEXT NOT NULL,
			path TEXT NOT NULL,
			encrypted INTEGER NOT NULL DEFAULT 0,
			converted INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_report_name ON artifacts(report_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a into the ledger and returns it with ID and CreatedAt set.
func (s *Store) Record(ctx context.Context, a Artifact) (Artifact, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (request_id, report_name, kind, format, path, encrypted, converted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RequestID, a.ReportName, string(a.Kind), string(a.Format), a.Path,
		a.Encrypted, a.Converted, a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Artifact{}, fmt.Errorf("recording artifact %s: %w", a.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Artifact{}, fmt.Errorf("reading artifact id: %w", err)
	}
	a.ID = id
	return a, nil
}

// ListOptions filters List.
type ListOptions struct {
	// ReportName restricts results to one report name.
	ReportName string

	// Limit caps the number of results (default 50).
	Limit int
}

// List returns artifacts newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Artifact, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, request_id, report_name, kind, format, path, encrypted, converted, created_at FROM artifacts`
	var args []any
	if opts.ReportName != "" {
		query += ` WHERE report_name = ?`
		args = append(args, opts.ReportName)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var (
			a         Artifact
			requestID sql.NullString
			kind      string
			format    string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &requestID, &a.ReportName, &kind, &format, &a.Path, &a.Encrypted, &a.Converted, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a.RequestID = requestID.String
		a.Kind = types.RecordKind(kind)
		a.Format = types.DocumentType(format)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			a.CreatedAt = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
