package geometry

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ErrorMargin is the smallest accepted ray parameter. Hits closer than this
// to the ray origin are ignored so a surface does not shadow itself.
const ErrorMargin = 1e-6

// Material describes the Phong surface response of a sphere
type Material struct {
	Color         core.Vec3 // Diffuse color
	SpecularPower float64   // Phong exponent, <= 0 disables the highlight
	Reflectivity  float64   // Mirror contribution in [0, 1]
}

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material Material
}

// SurfacePoint is the result of a ray-sphere intersection
type SurfacePoint struct {
	Position  core.Vec3 // Hit position in world space
	Normal    core.Vec3 // Unit outward normal
	Reflected core.Vec3 // Unit mirror direction of the incoming ray
	Distance  float64   // Ray parameter of the hit
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// roots solves the ray-sphere quadratic and reports whether any root lies
// within the ray's [ErrorMargin, 1] parametric window.
func (s *Sphere) roots(ray core.Ray) (t1, t2 float64, ok bool) {
	orig, dir, c0 := ray.Origin, ray.Direction, s.Center

	// Quadratic equation coefficients: at² + bt + c = 0
	a := dir.Dot(dir)
	b := 2.0 * dir.Dot(orig.Subtract(c0))
	c := c0.Dot(c0) + orig.Dot(orig) - 2.0*c0.Dot(orig) - s.Radius*s.Radius

	d := b*b - 4.0*a*c
	if d < 0.0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(d)
	t1 = (-b + sqrtD) / (2.0 * a)
	t2 = (-b - sqrtD) / (2.0 * a)

	if (t1 < ErrorMargin && t2 < ErrorMargin) || (t1 > 1.0 && t2 > 1.0) {
		return 0, 0, false
	}
	return t1, t2, true
}

// Occludes reports whether the ray segment hits the sphere at all.
// It is the shadow-ray fast path of Intersect and builds no surface point.
func (s *Sphere) Occludes(ray core.Ray) bool {
	_, _, ok := s.roots(ray)
	return ok
}

// Intersect tests the ray against the sphere and returns the nearest valid
// surface point
func (s *Sphere) Intersect(ray core.Ray) (SurfacePoint, bool) {
	t1, t2, ok := s.roots(ray)
	if !ok {
		return SurfacePoint{}, false
	}

	// A root behind the margin falls back to the other one
	if t1 < ErrorMargin {
		t1 = t2
	}
	if t2 < ErrorMargin {
		t2 = t1
	}
	dist := min(t1, t2)

	pos := ray.At(dist)
	normal := pos.Subtract(s.Center).Divide(s.Radius)

	return SurfacePoint{
		Position:  pos,
		Normal:    normal,
		Reflected: ray.Direction.Reflect(normal).Normalize(),
		Distance:  dist,
	}, true
}
