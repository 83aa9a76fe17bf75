package capture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func fixedCapturer(dir string, format Format) *Capturer {
	c := New(dir, "onion", format)
	c.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) }
	return c
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", PNG, false},
		{"png", PNG, false},
		{"BMP", BMP, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFilename(t *testing.T) {
	c := fixedCapturer("shots", BMP)
	want := filepath.Join("shots", "onion_f0012_2024-03-09_14-05-06.bmp")
	if got := c.Filename(12); got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestFlipRGBA(t *testing.T) {
	// Two rows, bottom row red, top row blue, as GL reads them.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}

	if _, err := FlipRGBA(pixels, 2, 2); err == nil {
		t.Error("size mismatch accepted")
	}
	if _, err := FlipRGBA(nil, 0, 0); err == nil {
		t.Error("empty size accepted")
	}
}

func TestFromPixelsBMP(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	c := fixedCapturer(dir, BMP)

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = 255
	}
	name, err := c.FromPixels(pixels, 4, 3, 7)
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if !strings.HasSuffix(name, ".bmp") {
		t.Errorf("name = %s", name)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestWritePNG(t *testing.T) {
	c := fixedCapturer(t.TempDir(), "")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	name, err := c.Write(img, 1)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(name) != ".png" {
		t.Errorf("name = %s", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("capture not written: %v", err)
	}
}
