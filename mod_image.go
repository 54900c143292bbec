package backdrop

import (
	"math"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/gekko3d/backdrop/render/raster"
)

// PointerPath scripts the pointer and scroll position of an offline render.
// Coordinates are in pixels of the output image.
type PointerPath func(elapsed float64, width, height int) (x, y, scroll float64)

// OrbitPath circles the pointer around the centre and scrolls down half a
// viewport over the first ten seconds.
func OrbitPath(elapsed float64, width, height int) (x, y, scroll float64) {
	w, h := float64(width), float64(height)
	x = w/2 + math.Cos(elapsed*0.7)*w/3
	y = h/2 + math.Sin(elapsed*0.7)*h/3
	scroll = math.Min(elapsed/10, 1) * h / 2
	return x, y, scroll
}

// ImageRenderer renders the field offline into PNG files. It is always
// available and stops the app after Frames frames. Pair it with a fixed
// TimeModule step for reproducible timing.
type ImageRenderer struct {
	Width  int
	Height int
	Frames uint64
	// Every writes every Every-th frame; 0 writes only the last one.
	Every  uint64
	OutDir string
	Camera render.Camera
	Fog    render.Fog
	Path   PointerPath

	writer  *raster.SnapshotWriter
	sink    *raster.Sink
	written []string
}

func NewImageRenderer(cfg Config) *ImageRenderer {
	return &ImageRenderer{
		Width:  cfg.Image.Width,
		Height: cfg.Image.Height,
		Frames: cfg.Image.Frames,
		Every:  cfg.Image.Every,
		OutDir: cfg.Image.OutDir,
		Camera: cfg.Camera.Camera(),
		Fog:    cfg.Fog.Fog(),
		Path:   OrbitPath,
	}
}

func (r *ImageRenderer) Name() RendererName { return RendererImage }

func (r *ImageRenderer) Probe() error { return nil }

// Written lists the files saved so far.
func (r *ImageRenderer) Written() []string { return r.written }

func (r *ImageRenderer) Install(app *App, cmd *Commands) {
	r.writer = raster.NewSnapshotWriter(r.OutDir)
	app.Logger().Infof("Rendering %d frames (%dx%d) to %s, run %s",
		r.Frames, r.Width, r.Height, r.writer.Dir, r.writer.RunID)

	if r.Path != nil {
		path := r.Path
		app.UseSystem(System(func(t *Time, tracker *field.Tracker) {
			x, y, scroll := path(t.Elapsed, r.Width, r.Height)
			tracker.PointerMoved(x, y, float64(r.Width), float64(r.Height))
			tracker.Scrolled(scroll, float64(r.Height))
		}).InStage(PreUpdate))
	}

	app.UseSystem(System(func(t *Time, cmd *Commands) {
		r.capture(t.Frame, cmd)
	}).InStage(PostRender))
}

// capture saves the current image when frame is due and requests exit after
// the last one. Frames are counted from 1.
func (r *ImageRenderer) capture(frame uint64, cmd *Commands) {
	last := r.Frames > 0 && frame >= r.Frames
	due := last
	if r.Every > 0 && frame%r.Every == 0 {
		due = true
	}
	if due && r.sink != nil {
		path, err := r.writer.Write(r.sink.Image, frame)
		if err != nil {
			cmd.Logger().Errorf("Frame %d not saved: %v", frame, err)
		} else {
			r.written = append(r.written, path)
			cmd.Logger().Debugf("Saved %s", path)
		}
	}
	if last {
		cmd.Exit()
	}
}

func (r *ImageRenderer) Sink(app *App) (Sink, error) {
	r.sink = raster.NewSink(r.Width, r.Height, r.Camera, r.Fog)
	return r.sink, nil
}

func (r *ImageRenderer) Fallback(app *App) (GradientPresenter, error) {
	return &raster.GradientSnapshot{
		Gradient: raster.DefaultGradient(),
		Writer:   r.writer,
		Width:    r.Width,
		Height:   r.Height,
	}, nil
}
