package backdrop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.Field.MouseEnabled())
	assert.Equal(t, 800, cfg.Field.Count)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
backend: terminal
debug: true
field:
  count: 500
  mouse_influence: false
camera:
  position: [1, 2, 3]
  fov: 60
fog:
  color: "#102030"
terminal:
  fps: 12
image:
  step: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, RendererTerminal, cfg.Backend)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 500, cfg.Field.Count)
	assert.False(t, cfg.Field.MouseEnabled())
	assert.Equal(t, float32(0.05), cfg.Field.ParticleSize)
	assert.Equal(t, 12, cfg.Terminal.FPS)
	assert.Equal(t, 256, cfg.Terminal.MinColors)
	assert.Equal(t, 500*time.Millisecond, cfg.Image.FixedStep())

	cam := cfg.Camera.Camera()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position)
	assert.Equal(t, float32(60), cam.Fov)
	assert.Equal(t, float32(1000), cam.Far)

	fog := cfg.Fog.Fog()
	assert.InDelta(t, 0x10/255.0, fog.Color.R, 1e-9)
	assert.InDelta(t, 0x30/255.0, fog.Color.B, 1e-9)
	assert.Equal(t, float32(5), fog.Near)
	assert.Equal(t, float32(20), fog.Far)
}

func TestParseConfig_ZeroCountIsKept(t *testing.T) {
	cfg, err := ParseConfig([]byte("field: {count: 0}"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Field.Count)
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"backend":  "backend: canvas",
		"fog":      `fog: {color: "teal"}`,
		"position": "camera: {position: [1, 2]}",
		"range":    "fog: {near: 9, far: 3}",
		"yaml":     "window: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: image\nimage: {frames: 3}\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RendererImage, cfg.Backend)
	assert.EqualValues(t, 3, cfg.Image.Frames)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
