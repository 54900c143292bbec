package backdrop

import (
	"math/rand"

	"github.com/gekko3d/backdrop/field"
)

// RendererName identifies a concrete renderer.
type RendererName string

const (
	RendererGPU      RendererName = "gpu"
	RendererTerminal RendererName = "terminal"
	RendererImage    RendererName = "image"
)

// Sink consumes one frame of particle instances per refresh.
type Sink interface {
	Draw(frame *field.Frame) error
}

// GradientPresenter shows the fallback background. elapsed drives its slow
// pan; it never touches particle state.
type GradientPresenter interface {
	Present(elapsed float64) error
}

// Renderer is a drawing surface. Install sets up the surface and its input
// sources; exactly one of Sink or Fallback is then asked for, depending on
// what Probe answered.
type Renderer interface {
	Module
	Probe
	Name() RendererName
	Sink(app *App) (Sink, error)
	Fallback(app *App) (GradientPresenter, error)
}

// FieldOptions configure the particle field installed for an accelerated
// backdrop.
type FieldOptions struct {
	Count        int
	ParticleSize float32
	Rng          *rand.Rand
}

// UseRenderer installs r as the app's only renderer. The capability check runs
// here, once; the outcome decides whether the particle field or the fallback
// gradient is installed and is never revisited.
// Usage:
//
//	app.UseRenderer(NewTerminalRenderer(cfg), FieldOptions{Count: 800})
func (app *App) UseRenderer(r Renderer, opts FieldOptions) *App {
	ensureSingleRenderer(app, r.Name())
	ensureResource(app, func() *field.Tracker { return field.NewTracker(false) })
	if _, ok := Resource[Time](app); !ok {
		// a clock that never advances would keep the field faded out
		app.Logger().Debugf("No TimeModule installed, using the wall clock")
		app.UseModules(TimeModule{})
	}
	ensureResource(app, func() *FrameProfiler { return &FrameProfiler{Budget: FrameBudget} })

	selected := SelectBackdrop(r, app.Logger())
	state := &BackdropState{Selected: selected}
	app.addResources(state)

	app.UseModules(r)

	if _, ok := selected.(Accelerated); ok {
		sink, err := r.Sink(app)
		if err == nil {
			app.Logger().Infof("Renderer selected: %s (%s)", r.Name(), selected)
			app.UseModules(ParticleFieldModule{
				Count:        opts.Count,
				ParticleSize: opts.ParticleSize,
				Rng:          opts.Rng,
				Sink:         sink,
			})
			return app
		}
		app.Logger().Warnf("Renderer %s could not create its sink, falling back to gradient background: %v", r.Name(), err)
		selected = Fallback{Reason: err}
		state.Selected = selected
	}

	app.Logger().Infof("Renderer selected: %s (%s)", r.Name(), selected)
	presenter, err := r.Fallback(app)
	if err != nil {
		app.Logger().Errorf("Renderer %s has no fallback background: %v", r.Name(), err)
		app.Commands().Exit()
		return app
	}
	live := false
	if l, ok := r.(LiveSurface); ok {
		live = l.LiveSurface()
	}
	app.UseModules(FallbackModule{
		Presenter:    presenter,
		FPS:          DefaultFallbackFPS,
		ExitWhenDone: !live,
	})
	return app
}

// ensureResource adds the resource made by mk unless one of that type exists.
func ensureResource[T any](app *App, mk func() *T) *T {
	if res, ok := Resource[T](app); ok {
		return res
	}
	res := mk()
	app.addResources(res)
	return res
}
