// internal/archive/archive.go

// Package archive keeps a SQLite history of scan sessions.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tamzrod/rasterscan/internal/status"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Entry is one archived session.
type Entry struct {
	ID int64
	status.Snapshot
}

// Open opens or creates the database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			plan TEXT NOT NULL,
			code INTEGER NOT NULL,
			error TEXT NOT NULL,
			telemetry_bytes INTEGER NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			telemetry_path TEXT NOT NULL,
			matrix_path TEXT NOT NULL,
			image_path TEXT NOT NULL,
			plot_error TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a finished session.
func (s *Store) Record(ctx context.Context, snap status.Snapshot) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (mode, started_at, ended_at, plan, code, error, telemetry_bytes, grid_rows, grid_cols, telemetry_path, matrix_path, image_path, plot_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Mode,
		snap.StartedAt.UTC().Format(time.RFC3339Nano),
		snap.EndedAt.UTC().Format(time.RFC3339Nano),
		snap.Plan,
		snap.Code,
		snap.Error,
		snap.TelemetryBytes,
		snap.Rows,
		snap.Cols,
		snap.TelemetryPath,
		snap.MatrixPath,
		snap.ImagePath,
		snap.PlotError,
	)
	if err != nil {
		return 0, fmt.Errorf("archive: insert: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, started_at, ended_at, plan, code, error, telemetry_bytes, grid_rows, grid_cols, telemetry_path, matrix_path, image_path, plot_error
		 FROM sessions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			started, ended string
		)
		if err := rows.Scan(&e.ID, &e.Mode, &started, &ended, &e.Plan, &e.Code, &e.Error,
			&e.TelemetryBytes, &e.Rows, &e.Cols, &e.TelemetryPath, &e.MatrixPath, &e.ImagePath, &e.PlotError); err != nil {
			return nil, err
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if e.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
