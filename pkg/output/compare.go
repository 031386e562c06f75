package output

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

var ErrSizeMismatch = errors.New("image sizes differ")

// Difference summarizes how far a render is from a reference image
type Difference struct {
	Pixels     int   // pixels with at least one differing channel
	MaxChannel uint8 // largest absolute difference of any channel
}

// Identical reports whether the images matched exactly
func (d Difference) Identical() bool {
	return d.Pixels == 0
}

// Compare measures the per-pixel difference between a frame buffer and a
// reference image of the same size
func Compare(fb *renderer.FrameBuffer, ref *image.RGBA) (Difference, error) {
	bounds := ref.Bounds()
	if bounds.Dx() != fb.Width || bounds.Dy() != fb.Height {
		return Difference{}, fmt.Errorf("%w: render is %dx%d, reference is %dx%d",
			ErrSizeMismatch, fb.Width, fb.Height, bounds.Dx(), bounds.Dy())
	}

	var diff Difference
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.RGB(x, y)
			c := ref.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)

			d := max(absDiff(r, c.R), absDiff(g, c.G), absDiff(b, c.B))
			if d > 0 {
				diff.Pixels++
				diff.MaxChannel = max(diff.MaxChannel, d)
			}
		}
	}
	return diff, nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
