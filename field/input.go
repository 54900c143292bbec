package field

import "github.com/go-gl/mathgl/mgl32"

// Input is the latest pointer and scroll sample handed to the updater.
type Input struct {
	Pointer mgl32.Vec2 // [-1,1] on both axes, +Y up
	Scroll  float32    // vertical offset in viewport heights
}

// NormalizePointer maps client coordinates to [-1,1] with +Y pointing up.
// A degenerate viewport yields the origin.
func NormalizePointer(clientX, clientY, width, height float64) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(clientX/width*2 - 1),
		float32(-(clientY/height)*2 + 1),
	}
}

func ScrollFraction(offsetY, viewportHeight float64) float32 {
	if viewportHeight <= 0 {
		return 0
	}
	return float32(offsetY / viewportHeight)
}

// Tracker keeps the last observed input. With mouse influence disabled it
// ignores every event, leaving the input at zero.
type Tracker struct {
	enabled bool
	latest  Input
}

func NewTracker(enabled bool) *Tracker {
	return &Tracker{enabled: enabled}
}

func (t *Tracker) Enabled() bool { return t.enabled }

func (t *Tracker) PointerMoved(clientX, clientY, width, height float64) {
	if !t.enabled {
		return
	}
	t.latest.Pointer = NormalizePointer(clientX, clientY, width, height)
}

func (t *Tracker) Scrolled(offsetY, viewportHeight float64) {
	if !t.enabled {
		return
	}
	t.latest.Scroll = ScrollFraction(offsetY, viewportHeight)
}

func (t *Tracker) Input() Input { return t.latest }
