package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// WriteScene writes a scene in the record format read by LoadScene.
// Loading the output yields an equal scene.
func WriteScene(w io.Writer, s *scene.Scene) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# sphere: s x y z radius r g b specular_power reflectivity")
	for _, sp := range s.Spheres() {
		fmt.Fprintf(bw, "s %s %s %s %s %s\n",
			formatVec3(sp.Center), formatFloat(sp.Radius), formatVec3(sp.Material.Color),
			formatFloat(sp.Material.SpecularPower), formatFloat(sp.Material.Reflectivity))
	}

	fmt.Fprintln(bw, "# light: l x y z")
	for _, l := range s.Lights() {
		fmt.Fprintf(bw, "l %s\n", formatVec3(l.Position))
	}

	cam := s.Camera()
	fmt.Fprintln(bw, "# camera: c x y z fov tx ty tz")
	fmt.Fprintf(bw, "c %s %s %s\n", formatVec3(cam.Position), formatFloat(cam.FieldOfView), formatVec3(cam.Target))

	return bw.Flush()
}

// formatFloat uses the shortest representation that parses back exactly
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatVec3(v core.Vec3) string {
	return formatFloat(v.X) + " " + formatFloat(v.Y) + " " + formatFloat(v.Z)
}
