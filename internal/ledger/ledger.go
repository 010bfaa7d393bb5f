// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite record of completed downloads in the
// destination folder. It is informational only: nothing consults it to
// decide what to transfer.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// FileName is the ledger database name inside a download folder.
const FileName = ".radar-fetch.db"

// Entry is one recorded download.
type Entry struct {
	ID         int64
	RunID      string
	Dataset    string
	Sensor     string
	Size       string
	Download   string
	Archive    string
	RecordedAt time.Time
}

// Ledger wraps the database handle.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// PathIn returns the ledger location for a download folder.
func PathIn(dest string) string {
	return filepath.Join(dest, FileName)
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, now: time.Now}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			dataset TEXT NOT NULL,
			sensor TEXT NOT NULL,
			size TEXT,
			download TEXT,
			archive TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_run_id ON downloads(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one completed entry under runID.
func (l *Ledger) Record(ctx context.Context, runID string, e types.PlanEntry, archive string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO downloads (run_id, dataset, sensor, size, download, archive, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, e.Dataset, e.Sensor, e.Size, e.Download, filepath.Base(archive),
		l.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s %s: %w", e.Dataset, e.Sensor, err)
	}
	return nil
}

// List returns every recorded entry in insertion order.
func (l *Ledger) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, run_id, dataset, sensor, size, download, archive, recorded_at
		 FROM downloads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			size       sql.NullString
			download   sql.NullString
			archive    sql.NullString
			recordedAt string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Dataset, &e.Sensor, &size, &download, &archive, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.Size = size.String
		e.Download = download.String
		e.Archive = archive.String
		e.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
