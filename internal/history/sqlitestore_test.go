package history

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mavwarf/shortcut-icons/internal/log"
	"github.com/Mavwarf/shortcut-icons/internal/runner"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func summary(id string, started time.Time) runner.Summary {
	return runner.Summary{
		Run:        id,
		Started:    started,
		DurationMs: 42,
		Total:      2,
		Failed:     1,
		Font:       "builtin:goregular",
		Icons: []runner.IconSummary{
			{Name: "fadshot_shortcut", Label: "PHOTO", Color: "#ffffff", Output: "/out/fadshot_shortcut.png", Bytes: 1200},
			{Name: "stop_shortcut", Label: "STOP", Color: "#e74c3c", Error: "glyph: no such file"},
		},
	}
}

func TestLogRunAndRuns(t *testing.T) {
	s := tempStore(t)
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	if err := s.LogRun(summary("run-1", started), "/cfg.json"); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != "run-1" || r.Total != 2 || r.Failed != 1 || r.ConfigPath != "/cfg.json" {
		t.Errorf("unexpected run: %+v", r)
	}
	if !r.Time.Equal(started) {
		t.Errorf("Time = %v, want %v", r.Time, started)
	}
	if r.Duration != 42*time.Millisecond {
		t.Errorf("Duration = %v, want 42ms", r.Duration)
	}
}

func TestIcons(t *testing.T) {
	s := tempStore(t)
	s.LogRun(summary("run-1", time.Now()), "")

	icons, err := s.Icons("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(icons) != 2 {
		t.Fatalf("expected 2 icons, got %d", len(icons))
	}
	if icons[0].Name != "fadshot_shortcut" || icons[0].Bytes != 1200 {
		t.Errorf("icon 0 = %+v", icons[0])
	}
	if !strings.Contains(icons[1].Error, "no such file") {
		t.Errorf("icon 1 error = %q", icons[1].Error)
	}
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		s.LogRun(summary(id, base.Add(time.Duration(i)*time.Hour)), "")
	}

	runs, err := s.Runs(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	s := tempStore(t)
	s.LogRun(summary("dup", time.Now()), "")
	if err := s.LogRun(summary("dup", time.Now()), ""); err == nil {
		t.Fatal("expected error for duplicate run id")
	}
	icons, _ := s.Icons("dup")
	if len(icons) != 2 {
		t.Errorf("failed insert leaked icons: got %d, want 2", len(icons))
	}
}

func TestFindRun(t *testing.T) {
	s := tempStore(t)
	s.LogRun(summary("abc123", time.Now()), "")
	s.LogRun(summary("abd456", time.Now()), "")

	r, err := s.FindRun("abc")
	if err != nil || r.ID != "abc123" {
		t.Errorf("FindRun(abc) = %+v, %v", r, err)
	}
	if _, err := s.FindRun("ab"); err == nil {
		t.Error("expected ambiguity error")
	}
	if _, err := s.FindRun("zzz"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestCleanCascades(t *testing.T) {
	s := tempStore(t)
	s.LogRun(summary("old", time.Now().AddDate(0, 0, -30)), "")
	s.LogRun(summary("new", time.Now()), "")

	n, err := s.Clean(7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("removed %d, want 1", n)
	}
	icons, _ := s.Icons("old")
	if len(icons) != 0 {
		t.Errorf("icons of removed run still present: %d", len(icons))
	}
	runs, _ := s.Runs(0)
	if len(runs) != 1 || runs[0].ID != "new" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestClear(t *testing.T) {
	s := tempStore(t)
	s.LogRun(summary("run-1", time.Now()), "")

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	runs, _ := s.Runs(0)
	if len(runs) != 0 {
		t.Errorf("expected no runs after Clear, got %d", len(runs))
	}
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestRunsWarnsOnBadTimestamp(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf, false)
	t.Cleanup(func() { log.Init(&bytes.Buffer{}, false) })

	s := tempStore(t)
	if err := s.LogRun(summary("good", time.Now()), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`INSERT INTO runs (id, timestamp) VALUES ('bad', 'yesterday')`); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "good" {
		t.Errorf("runs = %+v, want only the parseable run", runs)
	}
	out := buf.String()
	if !strings.Contains(out, "history_bad_timestamp") || !strings.Contains(out, "run=bad") {
		t.Errorf("expected warning for bad row, got %q", out)
	}
}
