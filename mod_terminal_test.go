package backdrop

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulatedTerminal(t *testing.T) (*TerminalRenderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	r := NewTerminalRenderer(DefaultConfig())
	r.Screen = screen
	r.MinColors = 1
	require.NoError(t, r.init())
	screen.SetSize(80, 24)
	return r, screen
}

func TestTerminalRenderer_HandleMouse(t *testing.T) {
	r, _ := newSimulatedTerminal(t)
	tracker := field.NewTracker(true)
	cmd := NewApp().Commands()

	r.handleEvent(tcell.NewEventMouse(79, 0, tcell.ButtonNone, tcell.ModNone), tracker, cmd)
	in := tracker.Input()
	assert.InDelta(t, 1, in.Pointer.X(), 0.02)
	assert.InDelta(t, 1, in.Pointer.Y(), 0.05)

	r.handleEvent(tcell.NewEventMouse(40, 12, tcell.WheelDown, tcell.ModNone), tracker, cmd)
	r.handleEvent(tcell.NewEventMouse(40, 12, tcell.WheelDown, tcell.ModNone), tracker, cmd)
	assert.InDelta(t, 2.0/24, tracker.Input().Scroll, 1e-6)

	for i := 0; i < 5; i++ {
		r.handleEvent(tcell.NewEventMouse(40, 12, tcell.WheelUp, tcell.ModNone), tracker, cmd)
	}
	assert.Zero(t, tracker.Input().Scroll, "scroll stops at the top")
}

func TestTerminalRenderer_MouseIgnoredWithoutInfluence(t *testing.T) {
	r, _ := newSimulatedTerminal(t)
	tracker := field.NewTracker(false)
	cmd := NewApp().Commands()

	r.handleEvent(tcell.NewEventMouse(3, 3, tcell.WheelDown, tcell.ModNone), tracker, cmd)
	assert.Equal(t, field.Input{}, tracker.Input())
}

func TestTerminalRenderer_QuitKeys(t *testing.T) {
	for name, ev := range map[string]*tcell.EventKey{
		"esc":    tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		"ctrl-c": tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
		"q":      tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
	} {
		t.Run(name, func(t *testing.T) {
			r, _ := newSimulatedTerminal(t)
			app := NewApp()
			r.handleEvent(ev, field.NewTracker(true), app.Commands())
			assert.True(t, app.ExitRequested())
		})
	}

	r, _ := newSimulatedTerminal(t)
	app := NewApp()
	r.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), field.NewTracker(true), app.Commands())
	assert.False(t, app.ExitRequested())
}

func TestTerminalRenderer_PumpStopsWhenDone(t *testing.T) {
	r, screen := newSimulatedTerminal(t)
	defer screen.Fini()

	out := make(chan tcell.Event) // nobody drains it
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		r.pump(screen, out, done)
		close(stopped)
	}()

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	close(done)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pump still blocked after done was closed")
	}
}

func TestTerminalRenderer_LiveSurface(t *testing.T) {
	r, _ := newSimulatedTerminal(t)
	assert.True(t, r.LiveSurface())

	broken := &TerminalRenderer{initialized: true, initErr: errors.New("no tty")}
	assert.False(t, broken.LiveSurface())
}

func TestTerminalRenderer_ProbeColours(t *testing.T) {
	r, screen := newSimulatedTerminal(t)
	r.MinColors = screen.Colors() + 1
	assert.Error(t, r.Probe())

	r.MinColors = 1
	assert.NoError(t, r.Probe())
}

func TestTerminalRenderer_DrawsField(t *testing.T) {
	r, screen := newSimulatedTerminal(t)
	var logs bytes.Buffer
	app := newTestApp(&logs)
	app.UseRenderer(r, FieldOptions{Count: 200})
	defer app.Teardown()

	app.Tick()

	state, _ := Resource[BackdropState](app)
	require.True(t, state.Accelerated())
	cells, w, h := screen.GetContents()
	require.Equal(t, 80*24, w*h)
	glyphs := 0
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] != ' ' {
			glyphs++
		}
	}
	assert.Positive(t, glyphs)
}

func TestTerminalRenderer_FallbackPaintsGradient(t *testing.T) {
	r, _ := newSimulatedTerminal(t)
	presenter, err := r.Fallback(NewApp())
	require.NoError(t, err)
	assert.IsType(t, &term.GradientPresenter{}, presenter)
	assert.NoError(t, presenter.Present(0))
}
