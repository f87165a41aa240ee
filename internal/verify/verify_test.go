package verify

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func opaque(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func TestInspectOpaquePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop_shortcut.png")
	writePNG(t, path, opaque(192))

	f, err := Inspect(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", f.MIME)
	}
	if got := f.Describe(); got != "PNG image data, 192 x 192, RGB" {
		t.Errorf("Describe = %q", got)
	}
	if err := Check(f, 192); err != nil {
		t.Errorf("Check = %v", err)
	}
	if !strings.HasSuffix(f.Listing(), "stop_shortcut.png") {
		t.Errorf("Listing = %q", f.Listing())
	}
}

func TestCheckRejectsAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha.png")
	img := opaque(192)
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0})
	writePNG(t, path, img)

	f, _ := Inspect(path)
	if f.Color != "RGBA" {
		t.Errorf("Color = %q, want RGBA", f.Color)
	}
	if err := Check(f, 192); err == nil {
		t.Error("expected Check to reject transparent PNG")
	}
}

func TestCheckRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	writePNG(t, path, opaque(48))

	f, _ := Inspect(path)
	err := Check(f, 192)
	if err == nil || !strings.Contains(err.Error(), "48x48") {
		t.Errorf("Check = %v, want size error", err)
	}
}

func TestInspectNonImage(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	os.WriteFile(text, []byte("hello"), 0644)
	empty := filepath.Join(dir, "empty")
	os.WriteFile(empty, nil, 0644)

	f, err := Inspect(text)
	if err != nil {
		t.Fatal(err)
	}
	if f.Describe() != "data" {
		t.Errorf("Describe(text) = %q, want data", f.Describe())
	}
	if err := Check(f, 192); err == nil {
		t.Error("expected Check to reject non-PNG")
	}

	f, _ = Inspect(empty)
	if f.Describe() != "empty" {
		t.Errorf("Describe(empty) = %q, want empty", f.Describe())
	}
}

func TestInspectMissing(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInspectDirectory(t *testing.T) {
	if _, err := Inspect(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

func TestListingHumanizedSize(t *testing.T) {
	f := File{Path: "/x/a.png", Size: 4200, Mode: 0644}
	if !strings.Contains(f.Listing(), "4.2 kB") {
		t.Errorf("Listing = %q, want 4.2 kB", f.Listing())
	}
}
