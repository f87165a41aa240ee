package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Mavwarf/shortcut-icons/internal/history"
)

func historyCmd(args []string) {
	if len(args) > 0 {
		switch args[0] {
		case "show":
			historyShow(args[1:])
			return
		case "clear":
			historyClear()
			return
		case "clean":
			historyClean(args[1:])
			return
		}
	}

	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: count must be a positive integer\n")
			os.Exit(1)
		}
		count = n
	}

	store := openHistory()
	defer store.Close()

	runs, err := store.Runs(count)
	if err != nil {
		fatal("%v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded. Enable history with --history or \"history\": true in config.")
		return
	}

	var out strings.Builder
	renderRuns(&out, runs, time.Now())
	fmt.Print(out.String())
}

func historyShow(args []string) {
	if len(args) == 0 {
		fatal("history show requires a run ID")
	}
	store := openHistory()
	defer store.Close()

	run, err := store.FindRun(args[0])
	if err != nil {
		fatal("%v", err)
	}
	icons, err := store.Icons(run.ID)
	if err != nil {
		fatal("%v", err)
	}

	var out strings.Builder
	renderRun(&out, run, icons)
	fmt.Print(out.String())
}

func historyClear() {
	store := openHistory()
	defer store.Close()
	if err := store.Clear(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("History cleared.")
}

func historyClean(args []string) {
	if len(args) == 0 {
		historyClear()
		return
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fmt.Fprintf(os.Stderr, "Error: days must be a positive integer\n")
		os.Exit(1)
	}

	store := openHistory()
	defer store.Close()
	n, err := store.Clean(days)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Removed %d run(s) older than %d days.\n", n, days)
}

func openHistory() history.Store {
	store, err := history.Open()
	if err != nil {
		fatal("%v", err)
	}
	return store
}

// shortID is the prefix shown in listings; history show accepts it.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderRuns writes one line per run, newest first.
func renderRuns(w *strings.Builder, runs []history.Run, now time.Time) {
	for _, r := range runs {
		status := green("ok")
		if r.Failed > 0 {
			status = red(fmt.Sprintf("%d failed", r.Failed))
		}
		mode := ""
		if r.DryRun {
			mode = dim(" (dry run)")
		}
		fmt.Fprintf(w, "%s  %s  %d icons  %s  %s%s\n",
			bold(shortID(r.ID)),
			padR(humanize.RelTime(r.Time, now, "ago", "from now"), 16),
			r.Total,
			padR(r.Duration.Round(time.Millisecond).String(), 8),
			status, mode)
	}
}

// renderRun writes the details and icons of one run.
func renderRun(w *strings.Builder, r history.Run, icons []history.Icon) {
	fmt.Fprintf(w, "%s %s\n", bold("Run"), r.ID)
	fmt.Fprintf(w, "  time:     %s\n", r.Time.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  duration: %s\n", r.Duration.Round(time.Millisecond))
	if r.Font != "" {
		fmt.Fprintf(w, "  font:     %s\n", r.Font)
	}
	if r.ConfigPath != "" {
		fmt.Fprintf(w, "  config:   %s\n", r.ConfigPath)
	}
	fmt.Fprintf(w, "  icons:    %d (%d failed)\n\n", r.Total, r.Failed)

	for _, ic := range icons {
		if ic.Error != "" {
			fmt.Fprintf(w, "  %s %s  %s\n", red("✗"), padR(ic.Name, 28), ic.Error)
			continue
		}
		size := ""
		if ic.Bytes > 0 {
			size = humanize.Bytes(uint64(ic.Bytes))
		}
		fmt.Fprintf(w, "  %s %s  %s  %s  %s\n", green("✓"), padR(ic.Name, 28), padR(ic.Label, 8), ic.Color, size)
	}
}

// padR pads s with spaces on the right to width.
func padR(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
