package renderer

import "github.com/df07/go-scanline-raytracer/pkg/core"

// RenderScanline renders image row y into the frame buffer. Every pixel
// averages SamplesPerPixel traced samples. Only row y of the buffer is
// written, which is what lets workers share one buffer without locking.
func (rt *Raytracer) RenderScanline(y int, fb *FrameBuffer) {
	samples := rt.config.SamplesPerPixel
	rcpSamples := 1.0 / float64(samples)
	row := fb.Row(y)

	for x := 0; x < rt.width; x++ {
		var sum core.Vec3
		for s := 0; s < samples; s++ {
			sum = sum.Add(rt.Trace(rt.PrimaryRay(x, y, s), 0))
		}

		col := sum.Multiply(rcpSamples).Clamp(0, 1)
		row[x] = fb.Layout.Pack(channelByte(col.X), channelByte(col.Y), channelByte(col.Z))
	}
}

// channelByte scales a color channel in [0, 1] to a byte, truncating
func channelByte(c float64) uint8 {
	return uint8(c * 255.0)
}
