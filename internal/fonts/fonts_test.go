package fonts

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Mavwarf/shortcut-icons/internal/log"
)

func TestResolveFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "broken.ttf")
	os.WriteFile(garbage, []byte("definitely not a font"), 0644)

	face, err := Resolve([]string{filepath.Join(dir, "missing.ttc"), garbage}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()

	if face.Source != BuiltinSource {
		t.Errorf("Source = %q, want %q", face.Source, BuiltinSource)
	}
	if face.Metrics().Ascent.Ceil() <= 0 {
		t.Errorf("ascent = %v, want positive", face.Metrics().Ascent)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	face, err := Resolve(nil, 12)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()
	if face.Source != BuiltinSource {
		t.Errorf("Source = %q, want %q", face.Source, BuiltinSource)
	}
}

func TestResolvePicksFirstUsable(t *testing.T) {
	dir := t.TempDir()
	bold := filepath.Join(dir, "GoBold.ttf")
	if err := os.WriteFile(bold, gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	face, err := Resolve([]string{filepath.Join(dir, "missing.ttc"), bold}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()

	if face.Source != bold {
		t.Errorf("Source = %q, want %q", face.Source, bold)
	}
}

func TestResolveSizeScalesMetrics(t *testing.T) {
	small, err := Resolve(nil, 12)
	if err != nil {
		t.Fatal(err)
	}
	defer small.Close()
	large, err := Resolve(nil, 48)
	if err != nil {
		t.Fatal(err)
	}
	defer large.Close()

	if large.Metrics().Height <= small.Metrics().Height {
		t.Errorf("48pt height %v not larger than 12pt height %v",
			large.Metrics().Height, small.Metrics().Height)
	}
}

func TestIsCollection(t *testing.T) {
	if !isCollection([]byte("ttcf\x00\x01")) {
		t.Error("ttcf header not detected")
	}
	if isCollection(gobold.TTF) {
		t.Error("single font reported as collection")
	}
}

// singleFontCollection wraps a TrueType font in a one-font "ttcf" file.
// Table offsets in a collection are relative to the start of the file,
// so each table record is shifted by the 16-byte collection header.
func singleFontCollection(t *testing.T, ttf []byte) []byte {
	t.Helper()
	const header = 16
	var buf bytes.Buffer
	buf.WriteString("ttcf")
	binary.Write(&buf, binary.BigEndian, uint32(0x00010000))
	binary.Write(&buf, binary.BigEndian, uint32(1))
	binary.Write(&buf, binary.BigEndian, uint32(header))

	font := append([]byte(nil), ttf...)
	numTables := int(binary.BigEndian.Uint16(font[4:6]))
	for i := 0; i < numTables; i++ {
		rec := 12 + 16*i
		off := binary.BigEndian.Uint32(font[rec+8 : rec+12])
		binary.BigEndian.PutUint32(font[rec+8:rec+12], off+header)
	}
	buf.Write(font)
	return buf.Bytes()
}

func TestResolveCollection(t *testing.T) {
	dir := t.TempDir()
	ttc := filepath.Join(dir, "Helvetica.ttc")
	if err := os.WriteFile(ttc, singleFontCollection(t, goregular.TTF), 0644); err != nil {
		t.Fatal(err)
	}

	face, err := Resolve([]string{ttc}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()

	if face.Source != ttc {
		t.Errorf("Source = %q, want %q", face.Source, ttc)
	}
	if face.Metrics().Ascent.Ceil() <= 0 {
		t.Errorf("ascent = %v, want positive", face.Metrics().Ascent)
	}
}

func TestResolveSkipsBrokenCollection(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttc")
	if err := os.WriteFile(broken, []byte("ttcf\x00\x01\x00\x00garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	bold := filepath.Join(dir, "GoBold.ttf")
	if err := os.WriteFile(bold, gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	face, err := Resolve([]string{broken, bold}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()
	if face.Source != bold {
		t.Errorf("Source = %q, want %q", face.Source, bold)
	}
}

func TestResolveExpandsHome(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false; homedir.Reset() })
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	if err := os.WriteFile(filepath.Join(home, "GoBold.ttf"), gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	face, err := Resolve([]string{"~/GoBold.ttf"}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()
	if want := filepath.Join(home, "GoBold.ttf"); face.Source != want {
		t.Errorf("Source = %q, want %q", face.Source, want)
	}
}

func TestResolveLogsUnexpandableCandidate(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf, true)
	t.Cleanup(func() { log.Init(&bytes.Buffer{}, false) })

	face, err := Resolve([]string{"~someoneelse/Arial.ttf"}, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer face.Close()

	if face.Source != BuiltinSource {
		t.Errorf("Source = %q, want %q", face.Source, BuiltinSource)
	}
	out := buf.String()
	if !strings.Contains(out, "font_skipped") || !strings.Contains(out, "~someoneelse/Arial.ttf") {
		t.Errorf("expected font_skipped for unexpandable path, got %q", out)
	}
}
