package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-scanline-raytracer/pkg/config"
	"github.com/df07/go-scanline-raytracer/pkg/loaders"
	"github.com/df07/go-scanline-raytracer/pkg/output"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// errMismatch is returned when -compare finds differing pixels
var errMismatch = errors.New("render differs from reference image")

// options are the settings that only make sense on the command line
type options struct {
	configPath  string
	comparePath string
	writeConfig string
	dumpScene   bool
}

func main() {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	cfg, opts, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout may carry the image
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	if err := run(cfg, opts, os.Stdout, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
}

// parseFlags layers command line flags over the config file: a flag that is
// set explicitly wins, everything else comes from the file or the defaults
func parseFlags(fs *flag.FlagSet, args []string) (*config.Config, options, error) {
	d := config.Default()
	var opts options

	var (
		width       = fs.Int("width", d.Width, "image width in pixels")
		height      = fs.Int("height", d.Height, "image height in pixels")
		size        = fs.String("size", "", "image size as WxH (overrides -width and -height)")
		samples     = fs.Int("samples", d.Samples, "rays per pixel")
		workers     = fs.Int("workers", d.Workers, "render workers (0 = one per CPU)")
		seed        = fs.Int64("seed", d.Seed, "jitter table seed")
		scenePath   = fs.String("scene", d.Scene, "scene file (empty = built-in reference scene)")
		outputPath  = fs.String("output", d.Output, "output image path, - for stdout")
		format      = fs.String("format", d.Format, "output format: ppm | png | bmp (default from extension)")
		pixelLayout = fs.String("pixel-layout", d.PixelLayout, "frame buffer pixel layout: native | xrgb | xbgr")
		sequential  = fs.Bool("sequential", d.Sequential, "render on the calling goroutine only")
		logLevel    = fs.String("log-level", d.LogLevel, "log level: debug | info | warn | error")
	)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML render config")
	fs.StringVar(&opts.comparePath, "compare", "", "reference image to compare the render against")
	fs.StringVar(&opts.writeConfig, "write-config", "", "write the effective config to this path and exit")
	fs.BoolVar(&opts.dumpScene, "dump-scene", false, "write the scene in text format to the output and exit")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := d
	if opts.configPath != "" {
		c, err := config.Load(opts.configPath)
		if err != nil {
			return nil, opts, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	// Visit runs in name order, so -size is applied afterwards to win
	// over -width and -height
	sizeSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "size":
			sizeSet = true
		case "samples":
			cfg.Samples = *samples
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "scene":
			cfg.Scene = *scenePath
		case "output":
			cfg.Output = *outputPath
		case "format":
			cfg.Format = *format
		case "pixel-layout":
			cfg.PixelLayout = *pixelLayout
		case "sequential":
			cfg.Sequential = *sequential
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if sizeSet {
		w, h, err := parseSize(*size)
		if err != nil {
			return nil, opts, err
		}
		cfg.Width, cfg.Height = w, h
	}

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

// parseSize parses "800x600"
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in size %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in size %q: %w", s, err)
	}
	return width, height, nil
}

// run renders the configured scene and writes the image. stdout receives
// the image when the output path is "-".
func run(cfg *config.Config, opts options, stdout io.Writer, logger zerolog.Logger) error {
	if opts.writeConfig != "" {
		if err := config.Save(opts.writeConfig, cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info().Str("path", opts.writeConfig).Msg("config written")
		return nil
	}

	format, err := output.FormatForPath(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}
	layout, err := renderer.ParsePixelLayout(cfg.PixelLayout)
	if err != nil {
		return err
	}

	// The output is opened before any work so an unwritable path fails fast
	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	s, err := createScene(cfg.Scene, logger)
	if err != nil {
		return err
	}

	if opts.dumpScene {
		return loaders.WriteScene(out, s)
	}

	rt := renderer.NewRaytracer(s, cfg.Width, cfg.Height)
	rt.SetSamplingConfig(cfg.SamplingConfig())
	rt.SetPixelLayout(layout)
	rt.SetLogger(logger)

	logger.Info().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("samples", cfg.Samples).
		Int("spheres", len(s.Spheres())).
		Int("lights", len(s.Lights())).
		Msg("rendering")

	var (
		fb    *renderer.FrameBuffer
		stats renderer.RenderStats
	)
	if cfg.Sequential {
		fb, stats, err = rt.RenderSequential()
	} else {
		fb, stats, err = rt.RenderParallel(cfg.Workers)
	}
	if err != nil {
		return err
	}

	logger.Info().
		Int("workers", stats.Workers).
		Dur("elapsed", stats.Elapsed).
		Float64("samples_per_sec", stats.SamplesPerSecond()).
		Float64("imbalance", stats.Imbalance()).
		Msg("render complete")

	if err := output.Encode(out, fb, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to close %s: %w", cfg.Output, err)
	}
	logger.Info().Str("output", cfg.Output).Stringer("format", format).Msg("image written")

	if opts.comparePath != "" {
		return compareWithReference(fb, opts.comparePath, logger)
	}
	return nil
}

// openOutput opens the image destination. The returned close function is
// safe to call more than once.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	closed := false
	return f, func() error {
		if closed {
			return nil
		}
		closed = true
		return f.Close()
	}, nil
}

// createScene loads a scene file, or the reference scene for an empty path
func createScene(path string, logger zerolog.Logger) (*scene.Scene, error) {
	if path == "" {
		logger.Debug().Msg("using built-in reference scene")
		return scene.NewReferenceScene(), nil
	}
	return loaders.LoadSceneFile(path, logger)
}

func compareWithReference(fb *renderer.FrameBuffer, path string, logger zerolog.Logger) error {
	ref, err := loaders.LoadImage(path)
	if err != nil {
		return err
	}
	diff, err := output.Compare(fb, ref)
	if err != nil {
		return err
	}

	event := logger.Info()
	if !diff.Identical() {
		event = logger.Warn()
	}
	event.Str("reference", path).
		Int("differing_pixels", diff.Pixels).
		Uint8("max_channel_diff", diff.MaxChannel).
		Msg("compared with reference")

	if !diff.Identical() {
		return fmt.Errorf("%w: %d pixels", errMismatch, diff.Pixels)
	}
	return nil
}
