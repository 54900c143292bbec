package backdrop

import (
	"errors"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/gekko3d/backdrop/render/gpu"
	"github.com/gekko3d/backdrop/render/raster"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// GpuRenderer draws the field with wgpu into a GLFW window. Without a usable
// adapter the gradient is written to SnapshotDir instead, since there is no
// surface to paint it on.
type GpuRenderer struct {
	Width       int
	Height      int
	Title       string
	Camera      render.Camera
	Fog         render.Fog
	ScrollStep  float64
	SnapshotDir string

	window *WindowState
}

func NewGpuRenderer(cfg Config) *GpuRenderer {
	return &GpuRenderer{
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Title:       cfg.Window.Title,
		Camera:      cfg.Camera.Camera(),
		Fog:         cfg.Fog.Fog(),
		ScrollStep:  DefaultScrollStep,
		SnapshotDir: cfg.Image.OutDir,
	}
}

func (r *GpuRenderer) Name() RendererName { return RendererGPU }

func (r *GpuRenderer) Probe() error { return gpu.Probe() }

func (r *GpuRenderer) Install(app *App, cmd *Commands) {
	ws, err := createWindowState(r.Width, r.Height, r.Title)
	if err != nil {
		app.Logger().Errorf("No window: %v", err)
		return
	}
	r.window = ws
	cmd.AddResources(ws)
	cmd.OnTeardown(ws.destroy)
	app.Logger().Infof("Created window (%dx%d) '%s'", r.Width, r.Height, r.Title)

	tracker, _ := Resource[field.Tracker](app)
	cmd.OnTeardown(ws.bindInput(tracker, r.ScrollStep))

	app.UseSystem(System(windowEventsSystem).InStage(PreUpdate))
}

func (r *GpuRenderer) Sink(app *App) (Sink, error) {
	if r.window == nil {
		return nil, errors.New("no window to draw into")
	}
	sink, err := gpu.NewSurfaceSink(r.window.windowGlfw, r.Camera, r.Fog)
	if err != nil {
		return nil, err
	}
	r.window.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		sink.Resize(width, height)
	})
	app.Commands().OnTeardown(func() {
		r.window.windowGlfw.SetFramebufferSizeCallback(nil)
		sink.Release()
	})
	return sink, nil
}

// LiveSurface is true while the window is open; the app then runs until the
// window is closed.
func (r *GpuRenderer) LiveSurface() bool { return r.window != nil }

// Fallback saves the gradient as an image. An open window has no swapchain to
// wait on, so its event loop blocks for input instead.
func (r *GpuRenderer) Fallback(app *App) (GradientPresenter, error) {
	if r.window != nil {
		r.window.EventTimeout = 1.0 / DefaultFallbackFPS
	}
	return &raster.GradientSnapshot{
		Gradient: raster.DefaultGradient(),
		Writer:   raster.NewSnapshotWriter(r.SnapshotDir),
		Width:    r.Width,
		Height:   r.Height,
	}, nil
}
