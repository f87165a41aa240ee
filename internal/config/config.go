package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/Mavwarf/shortcut-icons/internal/paths"
	"github.com/Mavwarf/shortcut-icons/internal/tmpl"
)

// Layout defaults for a 192×192 launcher shortcut.
const (
	DefaultSize              = 192
	DefaultGlyphSize         = 110
	DefaultGlyphTop          = 32
	DefaultLabelFontSize     = 24
	DefaultLabelLeft         = 16
	DefaultLabelBottomOffset = 45
	DefaultOutputPattern     = "{name}.png"
	DefaultGlyphDir          = "~/Downloads/fadcam_shortcuts_icons"
)

// DefaultBackground is the matte black canvas color.
var DefaultBackground = RGB{20, 20, 20}

// DefaultFonts lists the label fonts tried before the built-in fallback.
var DefaultFonts = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// MQTT configures a completion message published after each run.
type MQTT struct {
	Broker   string `json:"broker"`
	Topic    string `json:"topic"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	QoS      byte   `json:"qos,omitempty"`
	Retain   bool   `json:"retain,omitempty"`
}

// Webhook configures an HTTP POST of the run summary after each run.
type Webhook struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Options holds global settings parsed from the "config" key.
type Options struct {
	Size              int      `json:"size,omitempty"`
	Background        RGB      `json:"background"`
	GlyphSize         int      `json:"glyph_size,omitempty"`
	GlyphTop          int      `json:"glyph_top,omitempty"`
	LabelFontSize     float64  `json:"label_font_size,omitempty"`
	LabelLeft         int      `json:"label_left,omitempty"`
	LabelBottomOffset int      `json:"label_bottom_offset,omitempty"`
	Fonts             []string `json:"fonts,omitempty"`
	GlyphDir          string   `json:"glyph_dir,omitempty"`
	OutputDir         string   `json:"output_dir,omitempty"`
	OutputPattern     string   `json:"output_pattern,omitempty"`
	FitGlyph          bool     `json:"fit_glyph,omitempty"`
	History           bool     `json:"history,omitempty"`
	MQTT              *MQTT    `json:"mqtt,omitempty"`
	Webhook           *Webhook `json:"webhook,omitempty"`
}

// Icon is a single shortcut definition.
type Icon struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Color RGB    `json:"color"`
	Label string `json:"label"`
}

// Config holds the top-level configuration: global options and the icon table.
type Config struct {
	Options Options `json:"config"`
	Icons   []Icon  `json:"icons"`
}

// DefaultOptions returns the built-in layout and paths.
func DefaultOptions() Options {
	return Options{
		Size:              DefaultSize,
		Background:        DefaultBackground,
		GlyphSize:         DefaultGlyphSize,
		GlyphTop:          DefaultGlyphTop,
		LabelFontSize:     DefaultLabelFontSize,
		LabelLeft:         DefaultLabelLeft,
		LabelBottomOffset: DefaultLabelBottomOffset,
		Fonts:             append([]string(nil), DefaultFonts...),
		GlyphDir:          DefaultGlyphDir,
		OutputDir:         ".",
		OutputPattern:     DefaultOutputPattern,
	}
}

// DefaultIcons returns the built-in shortcut table, in output order.
func DefaultIcons() []Icon {
	const suffix = "_110dp_E3E3E3_FILL0_wght400_GRAD0_opsz48.png"
	return []Icon{
		{"fadshot_shortcut", "photo_camera" + suffix, RGB{255, 255, 255}, "PHOTO"},
		{"fadshot_front_shortcut", "photo_camera_front" + suffix, RGB{255, 255, 255}, "SELFIE"},
		{"start_back_shortcut", "video_camera_back" + suffix, RGB{52, 152, 219}, "BACK"},
		{"start_front_shortcut", "video_camera_front" + suffix, RGB{155, 89, 182}, "FRONT"},
		{"start_current_shortcut", "videocam" + suffix, RGB{46, 204, 113}, "CURRENT"},
		{"stop_shortcut", "back_hand" + suffix, RGB{231, 76, 60}, "STOP"},
		{"flashlight_shortcut", "flashlight_on" + suffix, RGB{241, 196, 15}, "TORCH"},
		{"start_dual_shortcut", "switch_camera" + suffix, RGB{0, 188, 212}, "DUAL"},
		{"fadrec_screenshot_shortcut", "mobile_camera" + suffix, RGB{241, 196, 15}, "FADREC"},
	}
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{Options: DefaultOptions(), Icons: DefaultIcons()}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults. The icon table is
// replaced as a whole; an absent "icons" key keeps the built-in table.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.Options = DefaultOptions()
	c.Icons = nil
	type Alias Config
	if err := json.Unmarshal(data, (*Alias)(c)); err != nil {
		return err
	}
	if c.Icons == nil {
		c.Icons = DefaultIcons()
	}
	return nil
}

// ErrNotFound is returned by FindPath when no config file exists in any
// of the searched locations.
var ErrNotFound = errors.New("no " + paths.ConfigFileName + " found")

// FindPath returns the config file that Load would read. It tries, in order:
//  1. explicitPath (if non-empty; must exist)
//  2. shortcut-icons.json next to the running binary
//  3. ~/.config/shortcut-icons/shortcut-icons.json
func FindPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicitPath, nil
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrNotFound
}

// Load reads the config file found by FindPath. When no file exists and
// no explicit path was given, the built-in defaults are returned with an
// empty source path.
func Load(explicitPath string) (Config, string, error) {
	p, err := FindPath(explicitPath)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := readConfig(p)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, p, nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Validate reports every problem in cfg as a single joined error.
func Validate(cfg Config) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	o := cfg.Options
	if o.Size <= 0 {
		add("config: size must be positive, got %d", o.Size)
	}
	if o.GlyphSize <= 0 {
		add("config: glyph_size must be positive, got %d", o.GlyphSize)
	} else if o.GlyphSize > o.Size {
		add("config: glyph_size %d exceeds size %d", o.GlyphSize, o.Size)
	}
	if o.GlyphTop < 0 || o.GlyphTop+o.GlyphSize > o.Size {
		add("config: glyph_top %d places the glyph outside the canvas", o.GlyphTop)
	}
	if o.LabelFontSize <= 0 {
		add("config: label_font_size must be positive, got %g", o.LabelFontSize)
	}
	if o.LabelLeft < 0 || o.LabelLeft >= o.Size {
		add("config: label_left %d is outside the canvas", o.LabelLeft)
	}
	if o.LabelBottomOffset <= 0 || o.LabelBottomOffset > o.Size {
		add("config: label_bottom_offset %d is outside the canvas", o.LabelBottomOffset)
	}
	if !strings.Contains(o.OutputPattern, "{name}") {
		add("config: output_pattern %q must contain {name}", o.OutputPattern)
	}
	if o.MQTT != nil && (o.MQTT.Broker == "" || o.MQTT.Topic == "") {
		add("config: mqtt requires broker and topic")
	}
	if o.MQTT != nil && o.MQTT.QoS > 2 {
		add("config: mqtt qos must be 0, 1 or 2, got %d", o.MQTT.QoS)
	}
	if o.Webhook != nil {
		u, err := url.Parse(o.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("config: webhook url %q must be an http(s) URL", o.Webhook.URL)
		}
	}

	if len(cfg.Icons) == 0 {
		add("config: no icons defined")
	}
	seen := make(map[string]bool, len(cfg.Icons))
	for i, ic := range cfg.Icons {
		switch {
		case ic.Name == "":
			add("config: icons[%d]: missing name", i)
		case !validName.MatchString(ic.Name):
			add("config: icons[%d]: name %q is not a valid file name", i, ic.Name)
		case seen[ic.Name]:
			add("config: icons[%d]: duplicate name %q", i, ic.Name)
		}
		seen[ic.Name] = true
		if ic.Glyph == "" {
			add("config: icon %q: missing glyph", ic.Name)
		}
		if strings.TrimSpace(ic.Label) == "" {
			add("config: icon %q: missing label", ic.Name)
		}
	}

	// Output files must be distinct, compared case-insensitively.
	usesLabel := strings.Contains(o.OutputPattern, "{label}") || strings.Contains(o.OutputPattern, "{LABEL}")
	outputs := make(map[string]string, len(cfg.Icons))
	for _, ic := range cfg.Icons {
		if usesLabel && strings.ContainsAny(ic.Label, `/\`) {
			add("config: icon %q: label %q contains a path separator used by output_pattern", ic.Name, ic.Label)
			continue
		}
		out := filepath.Clean(tmpl.Expand(o.OutputPattern, tmpl.Vars{Name: ic.Name, Label: ic.Label}))
		key := strings.ToLower(out)
		if prev, ok := outputs[key]; ok {
			add("config: icons %q and %q both write %s", prev, ic.Name, out)
			continue
		}
		outputs[key] = ic.Name
	}
	return errors.Join(errs...)
}

// Lookup returns the icons named in names, in table order. An empty
// names slice selects the whole table.
func Lookup(cfg Config, names []string) ([]Icon, error) {
	if len(names) == 0 {
		return cfg.Icons, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := make([]Icon, 0, len(names))
	for _, ic := range cfg.Icons {
		if want[ic.Name] {
			out = append(out, ic)
			delete(want, ic.Name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for _, n := range names {
			if want[n] {
				missing = append(missing, n)
				delete(want, n)
			}
		}
		return nil, fmt.Errorf("unknown icon(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}
