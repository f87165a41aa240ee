package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/log"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// runOpts holds values parsed from global flags.
type runOpts struct {
	ConfigPath string
	GlyphDir   string
	OutputDir  string
	Only       []string
	DryRun     bool
	History    bool
	NoVerify   bool
	Verbose    bool
}

func main() {
	opts, args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'shortcut-icons help' for usage.\n")
		os.Exit(1)
	}
	log.Init(os.Stderr, opts.Verbose)

	cmd := "generate"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "generate", "gen":
		generateCmd(opts)
	case "list", "-l", "--list":
		listCmd(opts)
	case "verify":
		verifyCmd(args, opts)
	case "config":
		configCmd(args, opts)
	case "history":
		historyCmd(args)
	default:
		fatal("unknown command %q\nRun 'shortcut-icons help' for usage.", cmd)
	}
}

// parseArgs separates global flags from positional arguments. Flags may
// appear anywhere on the command line.
func parseArgs(args []string) (runOpts, []string, error) {
	var opts runOpts
	var rest []string

	value := func(i int, name string) (string, error) {
		if i+1 >= len(args) || args[i+1] == "" {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "--config", "-c":
			v, err := value(i, a)
			if err != nil {
				return opts, nil, err
			}
			opts.ConfigPath = v
			i++
		case "--glyphs", "-g":
			v, err := value(i, a)
			if err != nil {
				return opts, nil, err
			}
			opts.GlyphDir = v
			i++
		case "--out", "-o":
			v, err := value(i, a)
			if err != nil {
				return opts, nil, err
			}
			opts.OutputDir = v
			i++
		case "--only":
			v, err := value(i, a)
			if err != nil {
				return opts, nil, err
			}
			opts.Only = append(opts.Only, splitList(v)...)
			i++
		case "--dry-run", "-n":
			opts.DryRun = true
		case "--history":
			opts.History = true
		case "--no-verify":
			opts.NoVerify = true
		case "--verbose":
			opts.Verbose = true
		default:
			if strings.HasPrefix(a, "--") {
				return opts, nil, fmt.Errorf("unknown option %s", a)
			}
			rest = append(rest, a)
		}
	}
	return opts, rest, nil
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadAndValidate loads the config, applies CLI overrides and validates
// the result. It returns the config source path ("" for built-in defaults).
func loadAndValidate(opts runOpts) (config.Config, string, error) {
	cfg, src, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, "", err
	}
	applyOverrides(&cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, src, err
	}
	return cfg, src, nil
}

// applyOverrides gives CLI flags priority over config values.
func applyOverrides(cfg *config.Config, opts runOpts) {
	if opts.GlyphDir != "" {
		cfg.Options.GlyphDir = opts.GlyphDir
	}
	if opts.OutputDir != "" {
		cfg.Options.OutputDir = opts.OutputDir
	}
}

// shouldRecord returns true if the run should be written to history,
// either via config ("history": true) or the --history CLI flag.
func shouldRecord(cfg config.Config, flag bool) bool {
	return flag || cfg.Options.History
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("shortcut-icons %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("shortcut-icons %s - Generate labelled launcher shortcut icons\n", version)
	fmt.Println(`
Usage:
  shortcut-icons [options] [command]

Commands:
  generate               Render every icon in the table (default)
  list, -l, --list       List the icon table
  verify [files...]      Inspect generated files (default: table outputs)
  config validate        Check the config file
  history [n]            Show the last n runs (default 10)
  history show <run>     Show the icons of one run
  history clean <days>   Remove runs older than days
  history clear          Delete all history
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Options:
  --config, -c <path>    Path to shortcut-icons.json
  --glyphs, -g <dir>     Directory containing the glyph PNGs
  --out, -o <dir>        Output directory
  --only <a,b,...>       Render only the named icons
  --dry-run, -n          Render without writing files
  --history              Record this run in the history database
  --no-verify            Skip the post-run file inspection
  --verbose              Debug logging on stderr

Config resolution:
  1. --config <path>                                (explicit)
  2. shortcut-icons.json next to binary             (portable)
  3. ~/.config/shortcut-icons/shortcut-icons.json   (user default)
  4. built-in table and layout

Examples:
  shortcut-icons -g ~/Downloads/glyphs -o app/src/main/res/drawable
  shortcut-icons --only stop_shortcut,flashlight_shortcut
  shortcut-icons verify app/src/main/res/drawable/stop_shortcut.png`)
}
