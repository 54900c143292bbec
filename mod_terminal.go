package backdrop

import (
	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/gekko3d/backdrop/render/raster"
	"github.com/gekko3d/backdrop/render/term"
)

// DefaultTerminalFPS paces the terminal loop; terminals gain nothing from
// redrawing faster.
const DefaultTerminalFPS = 30

// TerminalRenderer draws the field into the terminal with tcell. Mouse motion
// steers the pointer and the wheel scrolls a virtual page, one row per notch.
// Esc, Ctrl-C and q quit.
type TerminalRenderer struct {
	Screen      tcell.Screen
	FPS         int
	MinColors   int
	Camera      render.Camera
	Fog         render.Fog
	SnapshotDir string

	initialized bool
	initErr     error
	events      chan tcell.Event
	done        chan struct{}
	scrollRows  int
}

func NewTerminalRenderer(cfg Config) *TerminalRenderer {
	return &TerminalRenderer{
		FPS:         cfg.Terminal.FPS,
		MinColors:   cfg.Terminal.MinColors,
		Camera:      cfg.Camera.Camera(),
		Fog:         cfg.Fog.Fog(),
		SnapshotDir: cfg.Image.OutDir,
	}
}

func (r *TerminalRenderer) Name() RendererName { return RendererTerminal }

// init opens the screen once. A caller-provided Screen is initialised as is.
func (r *TerminalRenderer) init() error {
	if r.initialized {
		return r.initErr
	}
	r.initialized = true
	if r.Screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			r.initErr = err
			return err
		}
		r.Screen = screen
	}
	if err := r.Screen.Init(); err != nil {
		r.Screen = nil
		r.initErr = err
	}
	return r.initErr
}

func (r *TerminalRenderer) Probe() error {
	if err := r.init(); err != nil {
		return err
	}
	return term.CheckColors(r.Screen, r.MinColors)
}

func (r *TerminalRenderer) Install(app *App, cmd *Commands) {
	if err := r.init(); err != nil {
		app.Logger().Errorf("No terminal: %v", err)
		return
	}
	screen := r.Screen
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()
	cols, rows := screen.Size()
	app.Logger().Debugf("Terminal %dx%d, %d colours", cols, rows, screen.Colors())

	r.events = make(chan tcell.Event, 64)
	r.done = make(chan struct{})
	go r.pump(screen, r.events, r.done)
	cmd.OnTeardown(func() {
		close(r.done)
		screen.DisableMouse()
		screen.Fini()
	})

	app.UseSystem(System(func(tracker *field.Tracker, cmd *Commands) {
		r.drain(tracker, cmd)
	}).InStage(PreUpdate))

	usePacer(app, r.FPS)
}

// pump forwards tcell events until the screen is finalised or done is
// closed.
func (r *TerminalRenderer) pump(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

func (r *TerminalRenderer) drain(tracker *field.Tracker, cmd *Commands) {
	for {
		select {
		case ev := <-r.events:
			r.handleEvent(ev, tracker, cmd)
		default:
			return
		}
	}
}

func (r *TerminalRenderer) handleEvent(ev tcell.Event, tracker *field.Tracker, cmd *Commands) {
	cols, rows := r.Screen.Size()
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		// cell centre
		tracker.PointerMoved(float64(x)+0.5, float64(y)+0.5, float64(cols), float64(rows))
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			r.scrollRows = max(0, r.scrollRows-1)
			tracker.Scrolled(float64(r.scrollRows), float64(rows))
		case ev.Buttons()&tcell.WheelDown != 0:
			r.scrollRows++
			tracker.Scrolled(float64(r.scrollRows), float64(rows))
		}
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			cmd.Exit()
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			cmd.Exit()
		}
	case *tcell.EventResize:
		r.Screen.Sync()
	}
}

// LiveSurface is true while the terminal screen is open.
func (r *TerminalRenderer) LiveSurface() bool {
	return r.initialized && r.initErr == nil && r.Screen != nil
}

func (r *TerminalRenderer) Sink(app *App) (Sink, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	return term.NewSink(r.Screen, r.Camera, r.Fog), nil
}

// Fallback paints the gradient in the terminal when there is one, and saves
// it as an image otherwise.
func (r *TerminalRenderer) Fallback(app *App) (GradientPresenter, error) {
	if r.init() == nil {
		return term.NewGradientPresenter(r.Screen, raster.DefaultGradient()), nil
	}
	return &raster.GradientSnapshot{
		Gradient: raster.DefaultGradient(),
		Writer:   raster.NewSnapshotWriter(r.SnapshotDir),
		Width:    640,
		Height:   360,
	}, nil
}
