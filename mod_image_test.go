package backdrop

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/backdrop/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	app := NewAppBuilder().
		UseModule(LoggingModule{Logger: NewWriterLogger(&logs, &logs, "image", false)}).
		UseModule(TimeModule{FixedStep: 100 * time.Millisecond}).
		UseModule(InputModule{MouseInfluence: true}).
		Build()
	return app, &logs
}

func TestImageRenderer_WritesFramesAndExits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Image.Width, cfg.Image.Height = 64, 36
	cfg.Image.Frames = 7
	cfg.Image.Every = 3
	cfg.Image.OutDir = t.TempDir()
	r := NewImageRenderer(cfg)

	app, _ := newImageApp(t)
	app.UseRenderer(r, FieldOptions{Count: 30, Rng: rand.New(rand.NewSource(3))})
	app.Run(t.Context())

	assert.EqualValues(t, 7, app.Frames())
	// frames 3 and 6 are due, 7 is the last
	require.Len(t, r.Written(), 3)
	for _, path := range r.Written() {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Equal(t, cfg.Image.OutDir, filepath.Dir(path))
	}
	assert.Contains(t, r.Written()[2], "-000007.png")
}

func TestImageRenderer_FollowsPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Image.Frames = 1
	cfg.Image.OutDir = t.TempDir()
	r := NewImageRenderer(cfg)
	r.Path = func(elapsed float64, width, height int) (x, y, scroll float64) {
		return float64(width), 0, float64(height)
	}

	app, _ := newImageApp(t)
	app.UseRenderer(r, FieldOptions{Count: 1})
	app.Tick()

	tracker, _ := Resource[field.Tracker](app)
	in := tracker.Input()
	assert.Equal(t, float32(1), in.Pointer.X())
	assert.Equal(t, float32(1), in.Pointer.Y())
	assert.Equal(t, float32(1), in.Scroll)
}

func TestImageRenderer_FallbackWritesGradientOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Image.Width, cfg.Image.Height = 32, 18
	cfg.Image.Frames = 4
	cfg.Image.OutDir = t.TempDir()
	r := NewImageRenderer(cfg)

	app, logs := newImageApp(t)
	app.UseRenderer(fallbackImage{r}, FieldOptions{Count: 10})
	app.Run(t.Context())

	_, hasField := Resource[ParticleField](app)
	assert.False(t, hasField)
	assert.Empty(t, r.Written(), "no particle frames without a sink")

	entries, err := os.ReadDir(cfg.Image.OutDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, logs.String(), "WARN")
}

// fallbackImage is an image renderer whose probe always refuses.
type fallbackImage struct {
	*ImageRenderer
}

func (fallbackImage) Probe() error { return errors.New("forced") }

func TestOrbitPath(t *testing.T) {
	x, y, scroll := OrbitPath(0, 300, 200)
	assert.InDelta(t, 250, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
	assert.Zero(t, scroll)

	_, _, scroll = OrbitPath(60, 300, 200)
	assert.InDelta(t, 100, scroll, 1e-9)
}
