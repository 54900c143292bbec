package backdrop

import (
	"fmt"
	"math"
	"runtime"

	"github.com/gekko3d/backdrop/field"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// DefaultScrollStep is how many pixels one wheel notch scrolls.
const DefaultScrollStep = 100

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	// ScrollOffset is the virtual page offset in pixels built up from wheel
	// events; it never goes below zero.
	ScrollOffset float64

	// EventTimeout, in seconds, makes the event system block for input
	// instead of polling. Used when no swapchain paces the loop.
	EventTimeout float64
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

// bindInput wires cursor and wheel callbacks into tracker. The returned func
// removes them again.
func (s *WindowState) bindInput(tracker *field.Tracker, scrollStep float64) func() {
	win := s.windowGlfw
	win.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		tracker.PointerMoved(xpos, ypos, float64(s.WindowWidth), float64(s.WindowHeight))
	})
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		s.ScrollOffset = accumulateScroll(s.ScrollOffset, yoff, scrollStep)
		tracker.Scrolled(s.ScrollOffset, float64(s.WindowHeight))
	})
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		s.WindowWidth = width
		s.WindowHeight = height
	})

	return func() {
		win.SetCursorPosCallback(nil)
		win.SetScrollCallback(nil)
		win.SetSizeCallback(nil)
	}
}

// accumulateScroll applies one wheel event. Positive yoff scrolls up, towards
// the top of the page.
func accumulateScroll(offset, yoff, step float64) float64 {
	return math.Max(0, offset-yoff*step)
}

func (s *WindowState) destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

func windowEventsSystem(s *WindowState, cmd *Commands) {
	if s.EventTimeout > 0 {
		glfw.WaitEventsTimeout(s.EventTimeout)
	} else {
		glfw.PollEvents()
	}
	if s.windowGlfw.ShouldClose() {
		cmd.Exit()
	}
}
