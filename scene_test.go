package gekko

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScene = `
camera:
  eye: [0, 4, 12]
  target: [0, 0, 0]
  fovY: 50
spotLights:
  - position: [0, 6, 0]
  - position: [4, 3, 0]
    rotation: [0, 0, 90]
    color: 0xff8800
    intensity: 2
    castShadows: true
    outerConeAngle: 30
  - position: [-4, 3, 0]
    color: "0x0000ff"
    enable: false
    attenuationEnd: 0
`

func TestParseScene(t *testing.T) {
	def, err := ParseScene([]byte(demoScene))
	require.NoError(t, err)
	require.NotNil(t, def.Camera)
	assert.Equal(t, float32(50), def.Camera.FovY)
	require.Len(t, def.SpotLights, 3)

	plain, err := def.SpotLights[0].Component()
	require.NoError(t, err)
	assert.Equal(t, NewSpotLightComponent(), plain)

	orange, err := def.SpotLights[1].Component()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff8800), orange.Color)
	assert.Equal(t, float32(2), orange.Intensity)
	assert.True(t, orange.CastShadows)
	assert.Equal(t, float32(30), orange.OuterConeAngle)
	assert.Equal(t, float32(40), orange.InnerConeAngle)

	blue, err := def.SpotLights[2].Component()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0000ff), blue.Color)
	assert.False(t, blue.Enable)
	assert.Equal(t, float32(0), blue.AttenuationEnd)
}

func TestSpotLightDef_Transform(t *testing.T) {
	def := SpotLightDef{Position: mgl32.Vec3{4, 3, 0}, Rotation: mgl32.Vec3{0, 0, 90}}
	tr := def.Transform()
	assert.Equal(t, mgl32.Vec3{4, 3, 0}, tr.Position)

	down := tr.Rotation.Rotate(mgl32.Vec3{0, -1, 0})
	assert.InDeltaSlice(t, []float32{1, 0, 0}, down[:], 1e-5)

	plain := SpotLightDef{}.Transform()
	assert.Equal(t, mgl32.QuatIdent(), plain.Rotation)
}

func TestParseScene_Invalid(t *testing.T) {
	_, err := ParseScene([]byte("spotLights:\n  - color: purple\n"))
	assert.ErrorIs(t, err, ErrAttributeType)

	_, err = ParseScene([]byte("spotLights:\n  - position: [1, 2]\n"))
	assert.Error(t, err)
}

func TestLoadScene_SpawnsLights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoScene), 0o644))

	def, err := LoadSceneFile(path)
	require.NoError(t, err)

	f := newSpotLightFixture(t, false)
	cmd := f.app.Commands()
	ids, err := LoadScene(cmd, def)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	f.app.Step()

	assert.Len(t, f.scene.Lights(), 3)
	assert.Len(t, f.scene.EnabledLights(), 2)

	orange := f.sys.Light(cmd, ids[1])
	require.NotNil(t, orange)
	assert.Equal(t, float32(2), orange.Intensity())
	pos, dir3 := orange.Position(), orange.Direction()
	assert.InDeltaSlice(t, []float32{4, 3, 0}, pos[:], 1e-5)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, dir3[:], 1e-5)

	cameras := 0
	MakeQuery1[CameraComponent](cmd).Map(func(EntityId, *CameraComponent) bool {
		cameras++
		return true
	})
	assert.Equal(t, 1, cameras)
}
