package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SnapshotWriter saves frames as PNG files named after the run and frame.
type SnapshotWriter struct {
	Dir   string
	RunID uuid.UUID
}

func NewSnapshotWriter(dir string) *SnapshotWriter {
	if dir == "" {
		dir = "."
	}
	return &SnapshotWriter{Dir: dir, RunID: uuid.New()}
}

func (w *SnapshotWriter) Path(frame uint64) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s-%06d.png", w.RunID, frame))
}

// Write encodes img to the file for frame and returns its path.
func (w *SnapshotWriter) Write(img image.Image, frame uint64) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := w.Path(frame)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot %s: %w", path, err)
	}
	return path, nil
}

// GradientSnapshot presents the fallback gradient by writing it to disk once.
// It is used where there is no surface to paint a live background on.
type GradientSnapshot struct {
	Gradient Gradient
	Writer   *SnapshotWriter
	Width    int
	Height   int

	written string
}

func (g *GradientSnapshot) Present(elapsed float64) error {
	if g.written != "" {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, max(g.Width, 1), max(g.Height, 1)))
	// a still image has nothing to fade in from
	g.Gradient.Render(img, g.Gradient.Tile(), elapsed, 1)
	path, err := g.Writer.Write(img, 0)
	if err != nil {
		return err
	}
	g.written = path
	return nil
}

// Written is the path of the saved gradient, empty until Present succeeds.
func (g *GradientSnapshot) Written() string { return g.written }

// Done reports whether the gradient has been saved.
func (g *GradientSnapshot) Done() bool { return g.written != "" }
