package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// MaxRayDepth is the reflection recursion limit
const MaxRayDepth = 5

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum reflection depth
	JitterSeed      int64 // Seed for the jitter tables
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 1,
		MaxDepth:        MaxRayDepth,
		JitterSeed:      1,
	}
}

// Raytracer renders a scene at a fixed resolution. Configure it before
// rendering; a render only reads its state.
type Raytracer struct {
	scene  *scene.Scene
	width  int
	height int
	config SamplingConfig
	jitter *JitterTables
	basis  cameraBasis
	layout PixelLayout
	logger zerolog.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, width, height int) *Raytracer {
	config := DefaultSamplingConfig()
	return &Raytracer{
		scene:  s,
		width:  width,
		height: height,
		config: config,
		jitter: NewJitterTables(config.JitterSeed),
		basis:  newCameraBasis(s.Camera()),
		layout: NativePixelLayout(),
		logger: zerolog.Nop(),
	}
}

// SetSamplingConfig updates the sampling configuration and regenerates the
// jitter tables when the seed changes
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = 1
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = MaxRayDepth
	}
	if config.JitterSeed != rt.config.JitterSeed {
		rt.jitter = NewJitterTables(config.JitterSeed)
	}
	rt.config = config
}

// SetPixelLayout selects how pixels are packed into the frame buffer
func (rt *Raytracer) SetPixelLayout(layout PixelLayout) {
	rt.layout = layout
}

// SetLogger sets the logger used for render diagnostics
func (rt *Raytracer) SetLogger(logger zerolog.Logger) {
	rt.logger = logger
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Trace returns the color seen along a ray. Reflections recurse through
// shade until depth reaches the configured maximum.
func (rt *Raytracer) Trace(ray core.Ray, depth int) core.Vec3 {
	if depth >= rt.config.MaxDepth {
		return core.Vec3{}
	}

	spheres := rt.scene.Spheres()
	nearest := -1
	var nearestSP geometry.SurfacePoint

	for idx := range spheres {
		sp, ok := spheres[idx].Intersect(ray)
		if !ok {
			continue
		}
		// Strict comparison: on an exact tie the first sphere wins
		if nearest < 0 || sp.Distance < nearestSP.Distance {
			nearest = idx
			nearestSP = sp
		}
	}

	if nearest < 0 {
		return core.Vec3{}
	}
	return rt.shade(&spheres[nearest], nearestSP, depth)
}

// inShadow reports whether any sphere blocks the shadow ray
func (rt *Raytracer) inShadow(ray core.Ray) bool {
	spheres := rt.scene.Spheres()
	for idx := range spheres {
		if spheres[idx].Occludes(ray) {
			return true
		}
	}
	return false
}

// shade computes Phong direct lighting plus the mirror reflection
func (rt *Raytracer) shade(obj *geometry.Sphere, sp geometry.SurfacePoint, depth int) core.Vec3 {
	var col core.Vec3
	mat := obj.Material

	for _, light := range rt.scene.Lights() {
		ldir := light.Position.Subtract(sp.Position)

		// The unnormalized vector ends at the light, so t <= 1 stops there
		if rt.inShadow(core.NewRay(sp.Position, ldir)) {
			continue
		}

		ldir = ldir.Normalize()
		diffuse := max(sp.Normal.Dot(ldir), 0.0)
		specular := 0.0
		if mat.SpecularPower > 0.0 {
			specular = math.Pow(max(sp.Reflected.Dot(ldir), 0.0), mat.SpecularPower)
		}

		col.X += diffuse*mat.Color.X + specular
		col.Y += diffuse*mat.Color.Y + specular
		col.Z += diffuse*mat.Color.Z + specular
	}

	if mat.Reflectivity > 0.0 {
		ray := core.NewRay(sp.Position, sp.Reflected.Multiply(RayMagnitude))
		rcol := rt.Trace(ray, depth+1)
		col = col.Add(rcol.Multiply(mat.Reflectivity))
	}

	return col
}

// validate checks the render parameters before any buffer exists
func (rt *Raytracer) validate() error {
	if err := ValidateDimensions(rt.width, rt.height); err != nil {
		return err
	}
	if rt.config.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", rt.config.SamplesPerPixel)
	}
	return nil
}

// RenderSequential renders the whole frame on the calling goroutine
func (rt *Raytracer) RenderSequential() (*FrameBuffer, RenderStats, error) {
	if err := rt.validate(); err != nil {
		return nil, RenderStats{}, err
	}
	fb, err := NewFrameBuffer(rt.width, rt.height, rt.layout)
	if err != nil {
		return nil, RenderStats{}, err
	}

	start := time.Now()
	for row := 0; row < rt.height; row++ {
		rt.RenderScanline(row, fb)
	}
	elapsed := time.Since(start)

	stats := rt.newRenderStats([]ScanlineRange{{Start: 0, Count: rt.height}})
	stats.Elapsed = elapsed
	stats.WorkerTimes = []time.Duration{elapsed}

	rt.logger.Debug().
		Dur("elapsed", elapsed).
		Int("width", rt.width).
		Int("height", rt.height).
		Msg("sequential render finished")

	return fb, stats, nil
}

// RenderParallel renders the frame with a fixed pool of workers, each owning
// a contiguous range of scanlines
func (rt *Raytracer) RenderParallel(workers int) (*FrameBuffer, RenderStats, error) {
	if err := rt.validate(); err != nil {
		return nil, RenderStats{}, err
	}
	fb, err := NewFrameBuffer(rt.width, rt.height, rt.layout)
	if err != nil {
		return nil, RenderStats{}, err
	}

	scheduler := NewScheduler(rt, workers)
	elapsed, err := scheduler.Run(fb)
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("parallel render failed: %w", err)
	}

	stats := rt.newRenderStats(scheduler.Ranges())
	stats.Elapsed = elapsed
	for _, w := range scheduler.Workers() {
		stats.WorkerTimes = append(stats.WorkerTimes, w.Elapsed)
	}

	return fb, stats, nil
}
