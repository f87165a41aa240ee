// Package log is the diagnostic logger. Results meant for the user are
// printed by the CLI; everything here goes to stderr.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	logMu  sync.Mutex
	logger = zerolog.Nop()
)

// Init routes log output to out. Colour is used only when out is a
// terminal and NO_COLOR is unset. verbose enables debug events.
func Init(out io.Writer, verbose bool) {
	logMu.Lock()
	defer logMu.Unlock()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    !colorEnabled(out),
	}
	logger = zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func get() *zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return &logger
}

func Debug() *zerolog.Event { return get().Debug() }
func Info() *zerolog.Event  { return get().Info() }
func Warn() *zerolog.Event  { return get().Warn() }
func Error() *zerolog.Event { return get().Error() }

// IconRendered records the outcome of a single icon.
func IconRendered(name, output, font string, bytes int, d time.Duration, err error) {
	if err != nil {
		get().Error().Str("icon", name).Err(err).Msg("icon_failed")
		return
	}
	get().Debug().
		Str("icon", name).
		Str("output", output).
		Str("font", font).
		Int("bytes", bytes).
		Float64("ms", float64(d.Microseconds())/1000).
		Msg("icon_rendered")
}

// RunFinished records a completed batch.
func RunFinished(id string, total, failed int, d time.Duration) {
	ev := get().Info()
	if failed > 0 {
		ev = get().Warn()
	}
	ev.Str("run", id).
		Int("icons", total).
		Int("failed", failed).
		Dur("took", d).
		Msg("run_finished")
}
