package scene

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

// NewReferenceScene creates the classic four sphere scene: two small shiny
// spheres, a large reflective sphere, and a huge sphere acting as the floor,
// lit by two point lights.
func NewReferenceScene() *Scene {
	b := NewBuilder()

	spheres := []geometry.Sphere{
		geometry.NewSphere(core.NewVec3(-1.5, -0.3, -1), 0.7, geometry.Material{
			Color: core.NewVec3(1.0, 0.2, 0.05), SpecularPower: 50.0, Reflectivity: 0.3,
		}),
		geometry.NewSphere(core.NewVec3(1.5, -0.4, 0), 0.6, geometry.Material{
			Color: core.NewVec3(0.1, 0.85, 1.0), SpecularPower: 50.0, Reflectivity: 0.4,
		}),
		// Floor
		geometry.NewSphere(core.NewVec3(0, -1000, 2), 999, geometry.Material{
			Color: core.NewVec3(0.1, 0.2, 0.6), SpecularPower: 80.0, Reflectivity: 0.8,
		}),
		geometry.NewSphere(core.NewVec3(0, 0, 2), 1, geometry.Material{
			Color: core.NewVec3(1.0, 0.5, 0.1), SpecularPower: 60.0, Reflectivity: 0.7,
		}),
	}
	for _, s := range spheres {
		_ = b.AddSphere(s) // radii are all positive
	}

	_ = b.AddLight(Light{Position: core.NewVec3(-50, 100, -50)})
	_ = b.AddLight(Light{Position: core.NewVec3(40, 40, 150)})

	b.SetCamera(Camera{
		Position:    core.NewVec3(0, 6, -17),
		Target:      core.NewVec3(0, -1, 0),
		FieldOfView: 45,
	})

	s, _ := b.Build()
	return s
}

// ReferenceSceneText is the reference scene in the text record format
// understood by the loaders package
const ReferenceSceneText = `# sphere: s x y z rad r g b shininess reflectivity
s -1.5 -0.3 -1 0.7 1.0 0.2  0.05 50.0 0.3
s  1.5 -0.4  0 0.6 0.1 0.85 1.0  50.0 0.4
s	0  -1000  2	999	0.1 0.2  0.6  80.0 0.8
s	0      0  2   1 1.0 0.5  0.1  60.0 0.7
# light: l x y z
l	-50 100 -50
l	40 40 150
# camera: c x y z fov tx ty tz
c	0 6 -17		45		0 -1 0
`
