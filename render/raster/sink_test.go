package raster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_EmptyFrameIsFogColour(t *testing.T) {
	s := NewSink(8, 8, render.DefaultCamera(), render.DefaultFog())
	require.NoError(t, s.Draw(&field.Frame{Opacity: 1}))

	want := toRGBA(render.Background, 1)
	assert.Equal(t, want, s.Image.RGBAAt(4, 4))
	assert.Equal(t, 0, s.Drawn())
}

func TestSink_DrawsCentredParticle(t *testing.T) {
	s := NewSink(64, 64, render.DefaultCamera(), render.DefaultFog())
	frame := &field.Frame{
		Instances: []field.Instance{{
			Pos:   [3]float32{0, 0, 0},
			Size:  0.5,
			Color: [4]float32{1, 1, 1, 1},
		}},
		Opacity: 1,
	}
	require.NoError(t, s.Draw(frame))
	assert.Equal(t, 1, s.Drawn())

	bg := toRGBA(render.Background, 1)
	assert.NotEqual(t, bg, s.Image.RGBAAt(32, 32))
	assert.Equal(t, bg, s.Image.RGBAAt(0, 0))
}

func TestSink_InvisibleWhileFadedOut(t *testing.T) {
	s := NewSink(16, 16, render.DefaultCamera(), render.DefaultFog())
	frame := &field.Frame{
		Instances: []field.Instance{{Size: 0.5, Color: [4]float32{1, 1, 1, 1}}},
		Opacity:   0,
	}
	require.NoError(t, s.Draw(frame))
	assert.Equal(t, 0, s.Drawn())
}

func TestSink_CullsBehindCamera(t *testing.T) {
	s := NewSink(16, 16, render.DefaultCamera(), render.DefaultFog())
	frame := &field.Frame{
		Instances: []field.Instance{{Pos: [3]float32{0, 0, 9}, Size: 0.05, Color: [4]float32{1, 1, 1, 1}}},
		Opacity:   1,
	}
	require.NoError(t, s.Draw(frame))
	assert.Equal(t, 0, s.Drawn())
}

func TestGradientSnapshot_WritesOnce(t *testing.T) {
	dir := t.TempDir()
	g := &GradientSnapshot{
		Gradient: DefaultGradient(),
		Writer:   NewSnapshotWriter(dir),
		Width:    32,
		Height:   18,
	}
	require.NoError(t, g.Present(0))
	require.NoError(t, g.Present(1))

	assert.Equal(t, dir, filepath.Dir(g.Written()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
