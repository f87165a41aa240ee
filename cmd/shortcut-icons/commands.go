package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/term"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/history"
	"github.com/Mavwarf/shortcut-icons/internal/log"
	"github.com/Mavwarf/shortcut-icons/internal/runner"
	"github.com/Mavwarf/shortcut-icons/internal/verify"
)

// --- ANSI color helpers (disabled for NO_COLOR or non-terminal stdout) ---

var noColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func bold(s string) string  { return ansi("\033[1m", s) }
func dim(s string) string   { return ansi("\033[2m", s) }
func green(s string) string { return ansi("\033[32m", s) }
func red(s string) string   { return ansi("\033[31m", s) }

func generateCmd(opts runOpts) {
	cfg, src, err := loadAndValidate(opts)
	if err != nil {
		fatal("%v", err)
	}
	if src != "" {
		log.Debug().Str("config", src).Msg("config_loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Creating icons with text labels...")
	fmt.Println()

	rep, runErr := runner.Execute(ctx, cfg, runner.Options{Only: opts.Only, DryRun: opts.DryRun})
	if rep == nil {
		fatal("%v", runErr)
	}
	for _, res := range rep.Results {
		fmt.Println(resultLine(res, opts.DryRun))
	}
	fmt.Println()

	if rep.Failed() == 0 && runErr == nil {
		fmt.Printf("All %d icons created with labels!\n", len(rep.Results))
	} else {
		fmt.Printf("%d of %d icons failed.\n", rep.Failed(), len(rep.Results))
	}

	if shouldRecord(cfg, opts.History) {
		recordRun(rep, src)
	}
	if err := runner.Announce(ctx, rep, cfg.Options); err != nil {
		log.Warn().Err(err).Msg("announce_failed")
	}

	verifyFailed := false
	if !opts.NoVerify && !opts.DryRun {
		var outputs []string
		for _, res := range rep.Results {
			if res.Err == nil {
				outputs = append(outputs, res.Output)
			}
		}
		if len(outputs) > 0 {
			fmt.Println()
			verifyFailed = !printInspection(outputs, cfg.Options.Size)
		}
	}

	if runErr != nil || verifyFailed {
		os.Exit(1)
	}
}

// resultLine formats one per-icon status line.
func resultLine(res runner.Result, dryRun bool) string {
	name := filepath.Base(res.Output)
	if res.Output == "" {
		name = res.Icon.Name
	}
	if res.Err != nil {
		return fmt.Sprintf("%s %s - %v", red("✗"), name, res.Err)
	}
	verb := "Created"
	if dryRun {
		verb = "Would create"
	}
	return fmt.Sprintf("%s %s %s - %s %s", green("✓"), verb, name, res.Icon.Label, res.Icon.Color)
}

func recordRun(rep *runner.Report, src string) {
	store, err := history.Open()
	if err != nil {
		log.Warn().Err(err).Msg("history_open_failed")
		return
	}
	defer store.Close()
	if err := store.LogRun(rep.Summary(), src); err != nil {
		log.Warn().Err(err).Msg("history_write_failed")
	}
}

// printInspection lists the files with sizes, then describes their
// image type. Returns false if any file is missing or not an opaque
// size×size PNG.
func printInspection(files []string, size int) bool {
	ok := true
	inspected := make([]verify.File, 0, len(files))
	for _, p := range files {
		f, err := verify.Inspect(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			ok = false
			continue
		}
		inspected = append(inspected, f)
		fmt.Println(f.Listing())
	}
	fmt.Println()
	for _, f := range inspected {
		line := fmt.Sprintf("%s: %s", filepath.Base(f.Path), f.Describe())
		if err := verify.Check(f, size); err != nil {
			line += "  " + red("FAIL")
			ok = false
		}
		fmt.Println(line)
	}
	return ok
}

func listCmd(opts runOpts) {
	cfg, _, err := loadAndValidate(opts)
	if err != nil {
		fatal("%v", err)
	}
	icons, err := config.Lookup(cfg, opts.Only)
	if err != nil {
		fatal("%v", err)
	}
	for _, ic := range icons {
		fmt.Printf("  %-28s %-8s %s  %s\n", ic.Name, ic.Label, ic.Color.Hex(), dim(ic.Glyph))
	}
}

func verifyCmd(args []string, opts runOpts) {
	cfg, _, err := loadAndValidate(opts)
	if err != nil {
		fatal("%v", err)
	}

	files := args
	if len(files) == 0 {
		icons, err := config.Lookup(cfg, opts.Only)
		if err != nil {
			fatal("%v", err)
		}
		for _, ic := range icons {
			p, err := runner.OutputPath(cfg.Options, ic)
			if err != nil {
				fatal("%v", err)
			}
			files = append(files, p)
		}
	}

	if !printInspection(files, cfg.Options.Size) {
		os.Exit(1)
	}
}

func configCmd(args []string, opts runOpts) {
	if len(args) == 0 || args[0] == "validate" {
		configValidate(opts)
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
	os.Exit(1)
}

func configValidate(opts runOpts) {
	cfg, src, err := loadAndValidate(opts)
	if err != nil {
		fatal("%v", err)
	}
	if src == "" {
		src = "built-in defaults"
	}
	fmt.Printf("Config OK: %s (%d icons)\n", src, len(cfg.Icons))
}
