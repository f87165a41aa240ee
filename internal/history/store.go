// Package history records generation runs in a SQLite database so past
// batches can be listed and compared.
package history

import (
	"time"

	"github.com/Mavwarf/shortcut-icons/internal/runner"
)

// Run is one recorded generation run.
type Run struct {
	ID         string
	Time       time.Time
	Duration   time.Duration
	DryRun     bool
	Total      int
	Failed     int
	Font       string
	ConfigPath string
}

// Icon is one recorded icon of a run.
type Icon struct {
	Name   string
	Label  string
	Color  string
	Output string
	Bytes  int
	Error  string
}

// Store abstracts run history storage.
type Store interface {
	// Write
	LogRun(s runner.Summary, configPath string) error

	// Read
	Runs(limit int) ([]Run, error)      // newest first, 0 = all
	FindRun(prefix string) (Run, error) // by unique ID prefix
	Icons(runID string) ([]Icon, error) // in table order

	// Maintenance
	Clean(days int) (int, error) // remove runs older than days, return removed count
	Clear() error                // delete all data

	// Metadata
	Path() string
	Close() error
}
