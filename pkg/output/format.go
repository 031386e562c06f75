package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"

	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image encoding
type Format int

const (
	FormatPPM Format = iota
	FormatPNG
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPPM:
		return "ppm"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat resolves a format name such as "png" or ".png"
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "ppm", "pnm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatForPath picks the format from an explicit name, falling back to
// the file extension and then to PPM
func FormatForPath(name, path string) (Format, error) {
	if name != "" {
		return ParseFormat(name)
	}
	ext := filepath.Ext(path)
	if ext == "" || path == "-" {
		return FormatPPM, nil
	}
	return ParseFormat(ext)
}

// Encode writes the frame buffer to w in the given format
func Encode(w io.Writer, fb *renderer.FrameBuffer, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, fb)
	case FormatPNG:
		dc := gg.NewContextForRGBA(fb.ToRGBA())
		if err := dc.EncodePNG(w); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
		return nil
	case FormatBMP:
		if err := bmp.Encode(w, fb.ToRGBA()); err != nil {
			return fmt.Errorf("failed to encode BMP: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}
