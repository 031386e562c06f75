package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// WritePPM writes a binary PPM: the "P6" header followed by one R, G, B
// byte triple per pixel, top row first
func WritePPM(w io.Writer, fb *renderer.FrameBuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	row := make([]byte, fb.Width*3)
	for y := 0; y < fb.Height; y++ {
		for x, p := range fb.Row(y) {
			r, g, b := fb.Layout.Unpack(p)
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("failed to write PPM row %d: %w", y, err)
		}
	}
	return bw.Flush()
}
