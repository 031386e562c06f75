package renderer

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// RayMagnitude is the length primary and reflection rays are scaled to.
// Intersections are only accepted up to t=1, so this is the trace distance.
const RayMagnitude = 1000.0

// DefaultFieldOfView is used when a camera has no positive field of view
const DefaultFieldOfView = 45.0

var worldUp = core.NewVec3(0, 1, 0)

// cameraBasis is the camera-to-world transform derived from a scene camera
type cameraBasis struct {
	i, j, k core.Vec3 // Matrix columns: right, up, forward
	origin  core.Vec3
	halfFov float64 // Radians
}

// newCameraBasis builds the basis for a camera. The view direction must not
// be parallel to the world up vector.
func newCameraBasis(cam scene.Camera) cameraBasis {
	k := cam.Target.Subtract(cam.Position).Normalize()
	i := worldUp.Cross(k)
	j := k.Cross(i)

	fov := cam.FieldOfView
	if fov <= 0 {
		fov = DefaultFieldOfView
	}

	return cameraBasis{
		i:       i,
		j:       j,
		k:       k,
		origin:  cam.Position,
		halfFov: fov * math.Pi / 180.0 * 0.5,
	}
}

// toWorld transforms a camera-space direction into world space
func (b cameraBasis) toWorld(d core.Vec3) core.Vec3 {
	return core.Vec3{
		X: d.X*b.i.X + d.Y*b.j.X + d.Z*b.k.X,
		Y: d.X*b.i.Y + d.Y*b.j.Y + d.Z*b.k.Y,
		Z: d.X*b.i.Z + d.Y*b.j.Z + d.Z*b.k.Z,
	}
}

// samplePosition maps a pixel sample to normalized image-plane coordinates.
// Sample 0 is the pixel itself; later samples are jittered.
func (rt *Raytracer) samplePosition(x, y, sample int) (px, py float64) {
	width, height := float64(rt.width), float64(rt.height)
	aspect := width / height

	px = float64(x)/width - 0.5
	py = -(float64(y)/height - 0.65) / aspect

	if sample > 0 {
		sf := 1.5 / width
		jx, jy := rt.jitter.Offset(x, y, sample)
		px += jx * sf
		py += jy * sf / aspect
	}
	return px, py
}

// PrimaryRay builds the camera ray for one sample of pixel (x, y)
func (rt *Raytracer) PrimaryRay(x, y, sample int) core.Ray {
	px, py := rt.samplePosition(x, y, sample)

	dir := core.NewVec3(px, py, 1.0/rt.basis.halfFov).Multiply(RayMagnitude)
	world := rt.basis.toWorld(dir)

	// The camera position offsets the direction as well as the origin.
	// Rendered images depend on this, so it stays.
	return core.NewRay(rt.basis.origin, world.Add(rt.basis.origin))
}
