// Package capture writes viewport captures to image files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ParseFormat accepts png or bmp in any case. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return PNG, nil
	case PNG, BMP:
		return f, nil
	default:
		return "", fmt.Errorf("unknown capture format %q", s)
	}
}

// Capturer names and writes captures into a directory.
type Capturer struct {
	Dir    string
	Prefix string
	Format Format

	now func() time.Time
}

// New returns a capturer writing to dir.
func New(dir, prefix string, format Format) *Capturer {
	if format == "" {
		format = PNG
	}
	return &Capturer{Dir: dir, Prefix: prefix, Format: format, now: time.Now}
}

// Filename returns the path a capture of frame would be written to.
func (c *Capturer) Filename(frame int) string {
	name := fmt.Sprintf("%s_f%04d_%s.%s", c.Prefix, frame, c.now().Format("2006-01-02_15-04-05"), c.Format)
	if c.Dir != "" {
		name = filepath.Join(c.Dir, name)
	}
	return name
}

// FromPixels writes bottom-up RGBA rows, as glReadPixels returns them, and
// returns the file written.
func (c *Capturer) FromPixels(pixels []byte, width, height, frame int) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Write(img, frame)
}

// Write saves img for frame.
func (c *Capturer) Write(img image.Image, frame int) (string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating capture dir: %w", err)
		}
	}
	name := c.Filename(frame)
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating capture: %w", err)
	}
	if err := encode(f, img, c.Format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing capture: %w", err)
	}
	return name, nil
}

func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case BMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding BMP: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	}
	return nil
}

// FlipRGBA builds a top-down image from bottom-up RGBA rows.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture size %dx%d must be positive", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}
