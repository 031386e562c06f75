package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// Scene file records, one per line:
//
//	s  x y z  radius  r g b  specular_power  reflectivity
//	l  x y z
//	c  x y z  fov  tx ty tz
//
// Blank lines and lines starting with '#' are ignored.

// LoadSceneFile loads a scene description file
func LoadSceneFile(filename string, logger zerolog.Logger) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := LoadScene(file, logger.With().Str("file", filename).Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", filename, err)
	}
	return s, nil
}

// LoadScene parses a scene description. Unknown or malformed records are
// logged and skipped; the only fatal conditions are read errors and a
// missing camera.
func LoadScene(r io.Reader, logger zerolog.Logger) (*scene.Scene, error) {
	b := scene.NewBuilder()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		lineLog := logger.With().Int("line", lineNum).Str("record", parts[0]).Logger()
		fields := &recordFields{tokens: parts[1:], logger: lineLog}

		switch parts[0] {
		case "s":
			parseSphere(b, fields, lineLog)
		case "l":
			parseLight(b, fields, lineLog)
		case "c":
			parseCamera(b, fields, lineLog)
		default:
			lineLog.Warn().Msg("unknown record type, skipping line")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	return b.Build()
}

func parseSphere(b *scene.Builder, f *recordFields, logger zerolog.Logger) {
	center, _ := f.vec3()
	radius, ok := f.next()
	if !ok {
		logger.Warn().Msg("sphere record without radius, skipping")
		return
	}
	color, _ := f.vec3()
	specular, ok := f.next()
	if !ok {
		logger.Warn().Msg("sphere record without specular power, skipping")
		return
	}
	reflectivity, ok := f.next()
	if !ok {
		logger.Warn().Msg("sphere record without reflectivity, skipping")
		return
	}

	sphere := geometry.NewSphere(center, radius, geometry.Material{
		Color:         color,
		SpecularPower: specular,
		Reflectivity:  reflectivity,
	})
	if err := b.AddSphere(sphere); err != nil {
		logger.Warn().Err(err).Msg("skipping sphere")
	}
}

func parseLight(b *scene.Builder, f *recordFields, logger zerolog.Logger) {
	// A short light record keeps the coordinates it has
	pos, _ := f.vec3()
	if err := b.AddLight(scene.Light{Position: pos}); err != nil {
		logger.Warn().Err(err).Msg("skipping light")
	}
}

func parseCamera(b *scene.Builder, f *recordFields, logger zerolog.Logger) {
	pos, _ := f.vec3()
	fov, ok := f.next()
	if !ok {
		logger.Warn().Msg("camera record without field of view, skipping")
		return
	}
	target, _ := f.vec3()

	b.SetCamera(scene.Camera{
		Position:    pos,
		Target:      target,
		FieldOfView: fov,
	})
}

// recordFields walks the numeric tokens of one record in order
type recordFields struct {
	tokens []string
	pos    int
	logger zerolog.Logger
}

// next returns the next number, or false when the record has run out.
// A token is read up to the end of its longest numeric prefix, so "1.5abc"
// reads as 1.5 and a token with no number at all reads as zero.
func (f *recordFields) next() (float64, bool) {
	if f.pos >= len(f.tokens) {
		return 0, false
	}
	tok := f.tokens[f.pos]
	f.pos++

	v, n := parseNumberPrefix(tok)
	switch {
	case n == 0:
		f.logger.Warn().Str("token", tok).Msg("not a number, using 0")
	case n < len(tok):
		f.logger.Warn().Str("token", tok).Float64("value", v).Msg("trailing characters after number ignored")
	}
	return v, true
}

// parseNumberPrefix parses the longest prefix of s that is a valid float and
// returns it with the prefix length. It returns 0, 0 when no prefix parses.
func parseNumberPrefix(s string) (float64, int) {
	for n := len(s); n > 0; n-- {
		if v, err := strconv.ParseFloat(s[:n], 64); err == nil {
			return v, n
		}
	}
	return 0, 0
}

// vec3 reads up to three numbers. Missing components stay zero and the
// second result reports whether all three were present.
func (f *recordFields) vec3() (core.Vec3, bool) {
	var c [3]float64
	for i := range c {
		v, ok := f.next()
		if !ok {
			return core.NewVec3(c[0], c[1], c[2]), false
		}
		c[i] = v
	}
	return core.NewVec3(c[0], c[1], c[2]), true
}
