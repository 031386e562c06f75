package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

// MaxLights is the maximum number of point lights a scene may hold
const MaxLights = 16

var (
	ErrTooManyLights = errors.New("too many lights")
	ErrMissingCamera = errors.New("scene has no camera")
	ErrInvalidSphere = errors.New("invalid sphere")
)

// Light is a white point light without attenuation
type Light struct {
	Position core.Vec3
}

// Camera describes the single viewpoint of a scene
type Camera struct {
	Position    core.Vec3
	Target      core.Vec3
	FieldOfView float64 // Horizontal field of view in degrees
}

// Scene contains all the elements needed for rendering.
// A Scene is immutable once built and is safe for concurrent reads.
type Scene struct {
	spheres []geometry.Sphere
	lights  []Light
	camera  Camera
}

// Spheres returns the scene's spheres. Callers must not modify the slice.
func (s *Scene) Spheres() []geometry.Sphere { return s.spheres }

// Lights returns the scene's lights. Callers must not modify the slice.
func (s *Scene) Lights() []Light { return s.lights }

// Camera returns the scene camera
func (s *Scene) Camera() Camera { return s.camera }

// Builder accumulates scene elements before freezing them into a Scene
type Builder struct {
	spheres   []geometry.Sphere
	lights    []Light
	camera    Camera
	hasCamera bool
}

// NewBuilder creates an empty scene builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AddSphere appends a sphere. Non-positive radii are rejected.
func (b *Builder) AddSphere(sphere geometry.Sphere) error {
	if sphere.Radius <= 0 {
		return fmt.Errorf("%w: radius %g", ErrInvalidSphere, sphere.Radius)
	}
	b.spheres = append(b.spheres, sphere)
	return nil
}

// AddLight appends a point light, up to MaxLights
func (b *Builder) AddLight(light Light) error {
	if len(b.lights) >= MaxLights {
		return fmt.Errorf("%w: limit is %d", ErrTooManyLights, MaxLights)
	}
	b.lights = append(b.lights, light)
	return nil
}

// SetCamera sets the camera, replacing any earlier one
func (b *Builder) SetCamera(camera Camera) {
	b.camera = camera
	b.hasCamera = true
}

// Build freezes the accumulated elements into a Scene. The builder's
// slices are copied so later builder calls cannot reach the scene.
func (b *Builder) Build() (*Scene, error) {
	if !b.hasCamera {
		return nil, ErrMissingCamera
	}
	return &Scene{
		spheres: append([]geometry.Sphere(nil), b.spheres...),
		lights:  append([]Light(nil), b.lights...),
		camera:  b.camera,
	}, nil
}
