package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// MaxPixels bounds the frame buffer size
const MaxPixels = 1 << 28

var ErrInvalidDimensions = errors.New("invalid image dimensions")

// PixelLayout is the bit position of each 8-bit channel inside a packed
// 32-bit pixel
type PixelLayout struct {
	RShift, GShift, BShift uint
}

var (
	// LayoutXRGB puts red in the high byte, the in-memory BGRX byte order
	// of a little-endian machine
	LayoutXRGB = PixelLayout{RShift: 16, GShift: 8, BShift: 0}
	// LayoutXBGR puts blue in the high byte
	LayoutXBGR = PixelLayout{RShift: 0, GShift: 8, BShift: 16}
)

// NativePixelLayout returns the layout whose in-memory bytes read
// B, G, R on this machine
func NativePixelLayout() PixelLayout {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return LayoutXRGB
	}
	return LayoutXBGR
}

// ParsePixelLayout resolves a layout name: "xrgb", "xbgr" or "native"
func ParsePixelLayout(name string) (PixelLayout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native":
		return NativePixelLayout(), nil
	case "xrgb":
		return LayoutXRGB, nil
	case "xbgr":
		return LayoutXBGR, nil
	default:
		return PixelLayout{}, fmt.Errorf("unknown pixel layout %q", name)
	}
}

// Pack combines three channels into one pixel
func (l PixelLayout) Pack(r, g, b uint8) uint32 {
	return uint32(r)<<l.RShift | uint32(g)<<l.GShift | uint32(b)<<l.BShift
}

// Unpack splits a pixel into its channels
func (l PixelLayout) Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> l.RShift), uint8(p >> l.GShift), uint8(p >> l.BShift)
}

// FrameBuffer is a row-major array of packed 24-bit RGB pixels, top row first
type FrameBuffer struct {
	Width  int
	Height int
	Layout PixelLayout
	Pixels []uint32
}

// ValidateDimensions checks that a width x height frame buffer can be allocated
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxPixels/height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height int, layout PixelLayout) (*FrameBuffer, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Layout: layout,
		Pixels: make([]uint32, width*height),
	}, nil
}

// Row returns the pixels of scanline y
func (fb *FrameBuffer) Row(y int) []uint32 {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// RGB returns the channels of pixel (x, y)
func (fb *FrameBuffer) RGB(x, y int) (r, g, b uint8) {
	return fb.Layout.Unpack(fb.Pixels[y*fb.Width+x])
}

// ToRGBA converts the frame buffer to an opaque image
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.RGB(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
