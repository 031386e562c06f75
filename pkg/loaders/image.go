package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"
	"strconv"

	_ "golang.org/x/image/bmp" // BMP decoder
)

var ErrInvalidPPM = errors.New("invalid PPM image")

func init() {
	image.RegisterFormat("ppm", "P6", DecodePPM, DecodePPMConfig)
}

// LoadImage loads a PPM, PNG, JPEG or BMP image as RGBA
func LoadImage(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (format is detected from the file header)
	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}

// ppmHeader is the parsed "P6 <w> <h> <maxval>" preamble
type ppmHeader struct {
	width, height, maxVal int
}

// DecodePPMConfig reads the dimensions of a binary PPM image
func DecodePPMConfig(r io.Reader) (image.Config, error) {
	h, err := readPPMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodePPM decodes a binary (P6) PPM image with 8-bit channels
func DecodePPM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}
	if h.maxVal > 255 {
		return nil, fmt.Errorf("%w: 16-bit samples are not supported", ErrInvalidPPM)
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	row := make([]byte, h.width*3)
	for y := 0; y < h.height; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("%w: short pixel data at row %d: %v", ErrInvalidPPM, y, err)
		}
		pix := img.Pix[y*img.Stride:]
		for x := 0; x < h.width; x++ {
			pix[x*4+0] = scaleSample(row[x*3+0], h.maxVal)
			pix[x*4+1] = scaleSample(row[x*3+1], h.maxVal)
			pix[x*4+2] = scaleSample(row[x*3+2], h.maxVal)
			pix[x*4+3] = 255
		}
	}
	return img, nil
}

func scaleSample(v byte, maxVal int) byte {
	if maxVal == 255 {
		return v
	}
	return byte(int(v) * 255 / maxVal)
}

func readPPMHeader(br *bufio.Reader) (ppmHeader, error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return ppmHeader{}, fmt.Errorf("%w: %v", ErrInvalidPPM, err)
	}
	if string(magic) != "P6" {
		return ppmHeader{}, fmt.Errorf("%w: bad magic %q", ErrInvalidPPM, magic)
	}

	var fields [3]int
	for i := range fields {
		v, err := readPPMInt(br)
		if err != nil {
			return ppmHeader{}, err
		}
		fields[i] = v
	}
	h := ppmHeader{width: fields[0], height: fields[1], maxVal: fields[2]}
	if h.width <= 0 || h.height <= 0 || h.maxVal <= 0 || h.maxVal > 65535 {
		return ppmHeader{}, fmt.Errorf("%w: header %dx%d max %d", ErrInvalidPPM, h.width, h.height, h.maxVal)
	}

	// Exactly one whitespace byte separates the header from the pixels
	if _, err := br.ReadByte(); err != nil {
		return ppmHeader{}, fmt.Errorf("%w: %v", ErrInvalidPPM, err)
	}
	return h, nil
}

// readPPMInt skips whitespace and '#' comments, then reads a decimal number.
// The byte that ends the number is left unread.
func readPPMInt(br *bufio.Reader) (int, error) {
	var digits []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: truncated header: %v", ErrInvalidPPM, err)
		}
		switch {
		case c == '#' && len(digits) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("%w: truncated comment: %v", ErrInvalidPPM, err)
			}
		case isPPMSpace(c) && len(digits) == 0:
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case isPPMSpace(c):
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			return strconv.Atoi(string(digits))
		default:
			return 0, fmt.Errorf("%w: unexpected byte %q in header", ErrInvalidPPM, c)
		}
	}
}

func isPPMSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
