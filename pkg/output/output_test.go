package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

func newTestFrameBuffer(t *testing.T, layout renderer.PixelLayout) *renderer.FrameBuffer {
	t.Helper()
	fb, err := renderer.NewFrameBuffer(3, 2, layout)
	require.NoError(t, err)
	fb.Row(0)[0] = layout.Pack(255, 0, 0)
	fb.Row(0)[1] = layout.Pack(0, 255, 0)
	fb.Row(0)[2] = layout.Pack(0, 0, 255)
	fb.Row(1)[0] = layout.Pack(1, 2, 3)
	fb.Row(1)[2] = layout.Pack(255, 255, 255)
	return fb
}

const testPPM = "P6\n3 2\n255\n" +
	"\xff\x00\x00\x00\xff\x00\x00\x00\xff" +
	"\x01\x02\x03\x00\x00\x00\xff\xff\xff"

func TestWritePPM(t *testing.T) {
	for _, layout := range []renderer.PixelLayout{renderer.LayoutXRGB, renderer.LayoutXBGR} {
		var buf bytes.Buffer
		require.NoError(t, WritePPM(&buf, newTestFrameBuffer(t, layout)))
		assert.Equal(t, []byte(testPPM), buf.Bytes(), "layout %+v", layout)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{"ppm", FormatPPM, false},
		{".PNG", FormatPNG, false},
		{" bmp ", FormatBMP, false},
		{"pnm", FormatPPM, false},
		{"tiff", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("", "render.png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = FormatForPath("bmp", "render.png")
	require.NoError(t, err)
	assert.Equal(t, FormatBMP, f, "explicit name wins over extension")

	f, err = FormatForPath("", "-")
	require.NoError(t, err)
	assert.Equal(t, FormatPPM, f)

	f, err = FormatForPath("", "render")
	require.NoError(t, err)
	assert.Equal(t, FormatPPM, f)

	_, err = FormatForPath("", "render.gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "png", FormatPNG.String())
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestEncode_DecodesBack(t *testing.T) {
	fb := newTestFrameBuffer(t, renderer.LayoutXBGR)

	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		FormatPNG: func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		FormatBMP: func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
	}

	for format, decode := range decoders {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, fb, format))

			img, err := decode(&buf)
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

			for y := 0; y < fb.Height; y++ {
				for x := 0; x < fb.Width; x++ {
					r, g, b := fb.RGB(x, y)
					got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
					assert.Equal(t, color.RGBA{R: r, G: g, B: b, A: 255}, got, "pixel (%d,%d)", x, y)
				}
			}
		})
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fb, FormatPPM))
	assert.Equal(t, testPPM, buf.String())

	assert.ErrorIs(t, Encode(&buf, fb, Format(42)), ErrUnknownFormat)
}

func TestCompare(t *testing.T) {
	fb := newTestFrameBuffer(t, renderer.LayoutXRGB)
	ref := fb.ToRGBA()

	diff, err := Compare(fb, ref)
	require.NoError(t, err)
	assert.True(t, diff.Identical())

	ref.SetRGBA(1, 1, color.RGBA{R: 0, G: 9, B: 0, A: 255})
	ref.SetRGBA(2, 0, color.RGBA{R: 0, G: 0, B: 250, A: 255})
	diff, err = Compare(fb, ref)
	require.NoError(t, err)
	assert.Equal(t, Difference{Pixels: 2, MaxChannel: 9}, diff)

	_, err = Compare(fb, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestWritePPM_ReferenceScene(t *testing.T) {
	if testing.Short() {
		t.Skip("full resolution render")
	}

	rt := renderer.NewRaytracer(scene.NewReferenceScene(), 800, 600)
	fb, _, err := rt.RenderParallel(4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, fb))

	header := "P6\n800 600\n255\n"
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte(header)))
	assert.Equal(t, len(header)+800*600*3, buf.Len())
}
