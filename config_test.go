package gekko

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_KeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("debug: true\nwindow:\n  title: Test\n"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.True(t, cfg.Debug)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
	assert.Equal(t, def.Camera, cfg.Camera)
	assert.Equal(t, def.Preview, cfg.Preview)
	assert.True(t, cfg.Tools)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
tools: false
camera:
  eye: [0, 5, 20]
  target: [0, 1, 0]
  fovY: 45
preview:
  width: 128
  height: 96
`))
	require.NoError(t, err)
	assert.False(t, cfg.Tools)
	assert.Equal(t, mgl32.Vec3{0, 5, 20}, cfg.Camera.Eye)
	assert.Equal(t, float32(45), cfg.Camera.FovY)
	assert.Equal(t, 128, cfg.Preview.Width)
	assert.Equal(t, 96, cfg.Preview.Height)

	cam := cfg.Camera.Component()
	assert.Equal(t, float32(45), cam.FovY)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Target)
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"window":    "window: {width: 0}",
		"preview":   "preview: {height: -1}",
		"lineWidth": "preview: {lineWidth: 0}",
		"fov":       "camera: {fovY: 180}",
		"camera":    "camera: {eye: [1, 1, 1], target: [1, 1, 1]}",
		"syntax":    "window: [",
	} {
		_, err := ParseConfig([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadConfig_ResolvesScenePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotlight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: scenes/demo.yaml\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scenes", "demo.yaml"), cfg.Scene)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
