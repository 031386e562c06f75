package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-scanline-raytracer/pkg/output"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the render configuration. Zero values loaded from a file keep
// the defaults.
type Config struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Samples     int    `yaml:"samples"`
	Workers     int    `yaml:"workers"` // 0 means one per CPU
	Seed        int64  `yaml:"seed"`
	Scene       string `yaml:"scene,omitempty"`  // empty means the built-in reference scene
	Output      string `yaml:"output"`           // "-" is stdout
	Format      string `yaml:"format,omitempty"` // ppm | png | bmp, empty picks by extension
	PixelLayout string `yaml:"pixel_layout"`     // native | xrgb | xbgr
	Sequential  bool   `yaml:"sequential"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Width:       800,
		Height:      600,
		Samples:     1,
		Workers:     0,
		Seed:        1,
		Output:      "-",
		PixelLayout: "native",
		LogLevel:    "info",
	}
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.fillDefaults()
	return c, nil
}

// Save writes the config as YAML
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// fillDefaults restores defaults for fields a file explicitly zeroed
func (c *Config) fillDefaults() {
	d := Default()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Samples == 0 {
		c.Samples = d.Samples
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.PixelLayout == "" {
		c.PixelLayout = d.PixelLayout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks that the config describes a renderable image
func (c *Config) Validate() error {
	var errs []error
	if err := renderer.ValidateDimensions(c.Width, c.Height); err != nil {
		errs = append(errs, err)
	}
	if c.Samples < 1 {
		errs = append(errs, fmt.Errorf("samples must be at least 1, got %d", c.Samples))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := renderer.ParsePixelLayout(c.PixelLayout); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.FormatForPath(c.Format, c.Output); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SamplingConfig converts the config into renderer settings
func (c *Config) SamplingConfig() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel: c.Samples,
		MaxDepth:        renderer.MaxRayDepth,
		JitterSeed:      c.Seed,
	}
}
