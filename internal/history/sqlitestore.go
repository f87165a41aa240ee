package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/shortcut-icons/internal/log"
	"github.com/Mavwarf/shortcut-icons/internal/paths"
	"github.com/Mavwarf/shortcut-icons/internal/runner"

	_ "modernc.org/sqlite"
)

// tsLayout is fixed-width and always written in UTC so that timestamps
// sort lexically in chronological order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens the history database at the default location.
func Open() (*SQLiteStore, error) {
	return NewSQLiteStore(paths.HistoryPath())
}

// NewSQLiteStore opens (or creates) a SQLite database at path and creates
// tables and indexes.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT    PRIMARY KEY,
    timestamp   TEXT    NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    dry_run     INTEGER NOT NULL DEFAULT 0,
    total       INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0,
    font        TEXT    NOT NULL DEFAULT '',
    config_path TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS icons (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq     INTEGER NOT NULL,
    name    TEXT    NOT NULL,
    label   TEXT    NOT NULL DEFAULT '',
    color   TEXT    NOT NULL DEFAULT '',
    output  TEXT    NOT NULL DEFAULT '',
    bytes   INTEGER NOT NULL DEFAULT 0,
    error   TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_icons_run      ON icons(run_id, seq);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) LogRun(sum runner.Summary, configPath string) error {
	dry := 0
	if sum.DryRun {
		dry = 1
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, timestamp, duration_ms, dry_run, total, failed, font, config_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Run, sum.Started.UTC().Format(tsLayout), sum.DurationMs, dry,
		sum.Total, sum.Failed, sum.Font, configPath,
	); err != nil {
		return err
	}

	for i, ic := range sum.Icons {
		if _, err := tx.Exec(
			`INSERT INTO icons (run_id, seq, name, label, color, output, bytes, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sum.Run, i+1, ic.Name, ic.Label, ic.Color, ic.Output, ic.Bytes, ic.Error,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Runs(limit int) ([]Run, error) {
	query := `SELECT id, timestamp, duration_ms, dry_run, total, failed, font, config_path
		FROM runs ORDER BY timestamp DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		var ms int64
		var dry int
		if err := rows.Scan(&r.ID, &ts, &ms, &dry, &r.Total, &r.Failed, &r.Font, &r.ConfigPath); err != nil {
			return nil, err
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			log.Warn().Str("run", r.ID).Str("timestamp", ts).Err(err).Msg("history_bad_timestamp")
			continue
		}
		r.Time = t.Local()
		r.Duration = time.Duration(ms) * time.Millisecond
		r.DryRun = dry != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Icons(runID string) ([]Icon, error) {
	rows, err := s.db.Query(
		`SELECT name, label, color, output, bytes, error
		 FROM icons WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var icons []Icon
	for rows.Next() {
		var ic Icon
		if err := rows.Scan(&ic.Name, &ic.Label, &ic.Color, &ic.Output, &ic.Bytes, &ic.Error); err != nil {
			return nil, err
		}
		icons = append(icons, ic)
	}
	return icons, rows.Err()
}

// FindRun returns the run whose ID starts with prefix. The prefix must
// match exactly one run.
func (s *SQLiteStore) FindRun(prefix string) (Run, error) {
	runs, err := s.Runs(0)
	if err != nil {
		return Run{}, err
	}
	var match []Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, prefix) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return Run{}, fmt.Errorf("no run matches %q", prefix)
	case 1:
		return match[0], nil
	default:
		return Run{}, fmt.Errorf("%d runs match %q", len(match), prefix)
	}
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(tsLayout)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM icons`, `DELETE FROM runs`} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	return tx.Commit()
}
