package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

func TestBuilder_RequiresCamera(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddLight(Light{Position: core.NewVec3(0, 10, 0)}))

	s, err := b.Build()
	assert.ErrorIs(t, err, ErrMissingCamera)
	assert.Nil(t, s)
}

func TestBuilder_LightLimit(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < MaxLights; i++ {
		require.NoError(t, b.AddLight(Light{Position: core.NewVec3(float64(i), 0, 0)}))
	}
	assert.ErrorIs(t, b.AddLight(Light{}), ErrTooManyLights)
}

func TestBuilder_RejectsNonPositiveRadius(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.AddSphere(geometry.NewSphere(core.Vec3{}, 0, geometry.Material{})), ErrInvalidSphere)
	assert.ErrorIs(t, b.AddSphere(geometry.NewSphere(core.Vec3{}, -1, geometry.Material{})), ErrInvalidSphere)
}

func TestBuilder_LaterCameraWins(t *testing.T) {
	b := NewBuilder()
	b.SetCamera(Camera{Position: core.NewVec3(1, 1, 1), FieldOfView: 30})
	b.SetCamera(Camera{Position: core.NewVec3(2, 2, 2), FieldOfView: 60})

	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(2, 2, 2), s.Camera().Position)
	assert.Equal(t, 60.0, s.Camera().FieldOfView)
}

func TestBuilder_SceneIsDetached(t *testing.T) {
	b := NewBuilder()
	b.SetCamera(Camera{FieldOfView: 45})
	require.NoError(t, b.AddSphere(geometry.NewSphere(core.Vec3{}, 1, geometry.Material{})))

	s, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, b.AddSphere(geometry.NewSphere(core.Vec3{}, 2, geometry.Material{})))
	assert.Len(t, s.Spheres(), 1, "spheres added after Build must not leak into the scene")
}

func TestNewReferenceScene(t *testing.T) {
	s := NewReferenceScene()

	assert.Len(t, s.Spheres(), 4)
	assert.Len(t, s.Lights(), 2)
	assert.Equal(t, core.NewVec3(0, 6, -17), s.Camera().Position)
	assert.Equal(t, core.NewVec3(0, -1, 0), s.Camera().Target)
	assert.Equal(t, 45.0, s.Camera().FieldOfView)

	floor := s.Spheres()[2]
	assert.Equal(t, 999.0, floor.Radius)
	assert.Equal(t, 0.8, floor.Material.Reflectivity)
}
